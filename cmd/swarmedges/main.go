package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/export"
	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/topology"
	"github.com/tochemey/goakt/v3/log"
)

func main() {
	obstacles := flag.Int("obstacles", 0, "number of obstacles")
	boids := flag.Int("boids", 0, "number of boid agents")
	vicseks := flag.Int("vicseks", 0, "number of vicsek agents")
	instances := flag.Int("instances", 1, "copies of the matrix along the first axis")
	saveDir := flag.String("save-dir", "data", "name of the save directory")
	prefix := flag.String("prefix", "", "prefix for save files")
	show := flag.Bool("print", false, "print the matrix")
	flag.Parse()

	logger := log.New(log.InfoLevel, os.Stdout)

	if *obstacles < 0 || *boids < 0 || *vicseks < 0 || *instances < 0 {
		logger.Fatal("counts must be non-negative")
	}

	m := topology.SystemEdges(*obstacles, *boids, *vicseks)
	if *show {
		fmt.Print(m)
	}

	path := filepath.Join(*saveDir, *prefix+"_edge.npy")
	if err := export.SaveMatrix(path, m, *instances); err != nil {
		logger.Fatalf("saving %s: %v", path, err)
	}
	logger.Infof("saved %s: %d instances of a %dx%d influence matrix", path, *instances, m.N, m.N)
}
