// Command analysis measures observed false positive rates against the
// (1 - e^(-kn/m))^k estimate for every hasher over a sweep of k values.
//
//	go run . -items 10000 -fp 0.01 -kmin 1 -kmax 12
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/jcalabro/seedbloom"
)

var hashers = []struct {
	name string
	h    seedbloom.Hasher
}{
	{"xxh3", seedbloom.XXH3},
	{"xxhash64", seedbloom.XXHash64},
	{"murmur3", seedbloom.Murmur3},
	{"md5", seedbloom.MD5},
}

type result struct {
	hasher    string
	m         int
	k         int
	observed  float64
	estimated float64
	fill      float64
}

func main() {
	items := flag.Uint64("items", 10_000, "number of items to add")
	probes := flag.Uint64("probes", 100_000, "number of absent items to probe")
	fpRate := flag.Float64("fp", 0.01, "target false positive rate used to size m")
	bits := flag.Int("m", 0, "explicit bit count (overrides -fp sizing)")
	kmin := flag.Int("kmin", 1, "smallest k to measure")
	kmax := flag.Int("kmax", 12, "largest k to measure")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	m, optimalK := seedbloom.OptimalParams(*items, *fpRate)
	if *bits > 0 {
		m = *bits
	}
	log.Info("sweeping", "items", *items, "probes", *probes, "m", m, "optimal_k", optimalK)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "hasher\tm\tk\tobserved\testimated\tfill\t")

	for _, hh := range hashers {
		for k := *kmin; k <= *kmax; k++ {
			r, err := measure(hh.name, hh.h, m, k, *items, *probes)
			if err != nil {
				log.Error("measure failed", "hasher", hh.name, "m", m, "k", k, "err", err)
				os.Exit(1)
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.5f\t%.5f\t%.3f\t\n",
				r.hasher, r.m, r.k, r.observed, r.estimated, r.fill)
		}
	}

	if err := tw.Flush(); err != nil {
		log.Error("write report", "err", err)
		os.Exit(1)
	}
}

// measure fills a filter with keys [0, items) and probes keys
// [items, items+probes), none of which were added.
func measure(name string, h seedbloom.Hasher, m, k int, items, probes uint64) (result, error) {
	f, err := seedbloom.NewWithHasher(m, k, h)
	if err != nil {
		return result{}, err
	}

	for x := range items {
		f.Add(seedbloom.Uint(x))
	}

	var falsePositives uint64
	for x := items; x < items+probes; x++ {
		if f.Has(seedbloom.Uint(x)) {
			falsePositives++
		}
	}

	var observed float64
	if probes > 0 {
		observed = float64(falsePositives) / float64(probes)
	}

	return result{
		hasher:    name,
		m:         m,
		k:         k,
		observed:  observed,
		estimated: f.EstimatedFalsePositiveRate(),
		fill:      f.EstimatedFillRatio(),
	}, nil
}
