package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"glyphnet/internal/dataset"
	"glyphnet/internal/model"
	"glyphnet/internal/trainer"
)

func main() {
	modelPath := flag.String("model", "network.bin", "Trained network written by glyphnet")
	shardPath := flag.String("shard", "testing.tar", "Testing shard written by glyphnet")
	verbose := flag.Bool("v", false, "Print every misclassified glyph")

	flag.Parse()

	net, err := model.Load(*modelPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	size := 0
	for size*size < net.Inputs {
		size++
	}
	if size*size != net.Inputs {
		log.Fatalf("network input width %d is not a square grid", net.Inputs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	examples, err := dataset.LoadShard(ctx, *shardPath, size)
	if err != nil {
		log.Fatalf("load shard: %v", err)
	}

	if *verbose {
		for _, ex := range examples {
			if got := trainer.Predict(net, ex.Input); got != ex.Char {
				fmt.Printf("sample %d: %q predicted as %q\n", ex.Sample, ex.Char, got)
			}
		}
	}

	rep := trainer.Evaluate(net, examples, log.StandardLogger())
	log.WithFields(log.Fields{
		"correct": rep.Correct,
		"total":   rep.Total,
	}).Infof("success rate: %.2f%%", rep.Accuracy)
}
