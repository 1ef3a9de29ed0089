package dataset

import (
	"archive/tar"
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"glyphnet/internal/captcha"
	"glyphnet/internal/glyph"
)

// Record is one glyph image paired with its character code, as stored in
// a tar shard of <key>.png and <key>.cls members.
type Record struct {
	Key   string
	Image []byte
	Code  byte
}

// ErrPendingOverflow indicates the pairing map exceeded the configured bound.
var ErrPendingOverflow = errors.New("shard: pending pair buffer exceeded")

const defaultPendingCap = 1024

// shardThreshold splits the black-on-white glyph images written by
// WriteShard.
const shardThreshold = 3 * 127

// WriteShard stores examples as a tar shard at path. Keys are
// <sample>-<position> so readers keep the original order.
func WriteShard(path string, examples []Example, size int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create shard dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create shard: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	tw := tar.NewWriter(bw)
	position := 0
	for i, ex := range examples {
		if len(ex.Input) != size*size {
			return fmt.Errorf("example %d: input length %d, want %d", i, len(ex.Input), size*size)
		}
		if i > 0 && examples[i-1].Sample == ex.Sample {
			position++
		} else {
			position = 0
		}
		key := fmt.Sprintf("%06d-%02d", ex.Sample, position)
		img, err := encodeGlyph(ex.Input, size)
		if err != nil {
			return err
		}
		if err := writeMember(tw, key+".png", img); err != nil {
			return err
		}
		if err := writeMember(tw, key+".cls", []byte(strconv.Itoa(int(ex.Char)))); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush shard: %w", err)
	}
	return f.Close()
}

func writeMember(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{Name: name, Size: int64(len(data)), Mode: 0o644}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header %s: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func encodeGlyph(input []float64, size int) ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i, v := range input {
		c := color.Gray{Y: 0xff}
		if v > 0.5 {
			c.Y = 0
		}
		img.SetGray(i%size, i/size, c)
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("encode glyph: %w", err)
	}
	return buf.Bytes(), nil
}

// StreamShard streams paired records from the shard at path in archive
// order.
func StreamShard(ctx context.Context, path string, pendingCap int) (<-chan Record, <-chan error) {
	if pendingCap <= 0 {
		pendingCap = defaultPendingCap
	}
	out := make(chan Record)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		f, err := os.Open(path)
		if err != nil {
			errCh <- fmt.Errorf("open shard: %w", err)
			return
		}
		defer f.Close()

		tr := tar.NewReader(bufio.NewReader(f))
		pending := make(map[string]*partial)

		for {
			if err := ctx.Err(); err != nil {
				errCh <- err
				return
			}

			hdr, err := tr.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				errCh <- fmt.Errorf("read tar: %w", err)
				return
			}
			if hdr.FileInfo().IsDir() {
				continue
			}
			name := filepath.Base(hdr.Name)
			ext := strings.ToLower(filepath.Ext(name))
			key := strings.TrimSuffix(name, filepath.Ext(name))

			if ext != ".png" && ext != ".cls" {
				continue
			}
			payload, err := io.ReadAll(tr)
			if err != nil {
				errCh <- fmt.Errorf("read %s: %w", name, err)
				return
			}
			part := pending[key]
			if part == nil {
				part = &partial{}
				pending[key] = part
			}
			if ext == ".png" {
				part.image = payload
			} else {
				code, err := strconv.ParseUint(strings.TrimSpace(string(payload)), 10, 8)
				if err != nil {
					errCh <- fmt.Errorf("parse label %s: %w", name, err)
					return
				}
				c := byte(code)
				part.code = &c
			}

			if len(pending) > pendingCap {
				errCh <- ErrPendingOverflow
				return
			}

			if part.ready() {
				rec := Record{Key: key, Image: part.image, Code: *part.code}
				delete(pending, key)
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case out <- rec:
				}
			}
		}

		if len(pending) > 0 {
			errCh <- fmt.Errorf("%d records incomplete", len(pending))
		}
	}()

	return out, errCh
}

type partial struct {
	image []byte
	code  *byte
}

func (p *partial) ready() bool {
	return len(p.image) > 0 && p.code != nil
}

// LoadShard reads a shard back into examples of side size. The sample
// index is parsed from the record key when present.
func LoadShard(ctx context.Context, path string, size int) ([]Example, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	records, errCh := StreamShard(ctx, path, 0)
	var dec captcha.ImageDecoder
	var examples []Example
	for rec := range records {
		raw, err := dec.Decode(rec.Image)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.Key, err)
		}
		if raw.Width != size || raw.Height != size {
			return nil, fmt.Errorf("record %s: glyph is %dx%d, want %dx%d", rec.Key, raw.Width, raw.Height, size, size)
		}
		g := glyph.Binarize(raw, 1, size, shardThreshold)[0]
		n := 0
		if i := strings.IndexByte(rec.Key, '-'); i > 0 {
			n, _ = strconv.Atoi(rec.Key[:i])
		}
		examples = append(examples, NewExample(g, rec.Code, n))
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return examples, nil
}
