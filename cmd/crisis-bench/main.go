package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/joebwd/mental-wellness-prompts/internal/lexical"
)

func main() {
	patternsPath := flag.String("patterns", "", "path to patterns yaml (optional, built-ins when empty)")
	n := flag.Int("n", 10000, "number of iterations")
	text := flag.String("text", "I just feel so alone and I want to end it all", "utterance to classify")
	lang := flag.String("lang", "en", "utterance language")
	flag.Parse()

	table, err := lexical.LoadTable(*patternsPath)
	if err != nil {
		log.Fatalf("load patterns: %v", err)
	}

	// Warmup
	for i := 0; i < 5; i++ {
		table.Classify(*text, *lang)
	}

	if *n <= 0 {
		*n = 1
	}

	durations := make([]time.Duration, 0, *n)
	var last string
	for i := 0; i < *n; i++ {
		start := time.Now()
		res := table.Classify(*text, *lang)
		durations = append(durations, time.Since(start))
		last = res.Severity.String()
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	var total time.Duration
	for _, d := range durations {
		total += d
	}

	avg := float64(total.Microseconds()) / float64(len(durations))
	p50 := float64(durations[len(durations)/2].Microseconds())
	p95 := float64(durations[int(float64(len(durations))*0.95)].Microseconds())

	fmt.Printf("bench: n=%d avg_us=%.2f p50_us=%.2f p95_us=%.2f severity=%s languages=%d\n",
		len(durations),
		avg,
		p50,
		p95,
		last,
		len(table.Languages()),
	)
}
