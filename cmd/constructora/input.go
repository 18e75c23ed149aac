package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// prompter reads and validates console input. Invalid entries re-prompt;
// an empty entry (or declined retry) aborts the current question.
type prompter struct {
	in *bufio.Scanner
}

func (p *prompter) line(prompt string) string {
	fmt.Print(prompt)
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

func (p *prompter) confirm(prompt string) bool {
	return strings.EqualFold(p.line(prompt), "y")
}

// date reads a YYYY-MM-DD date. When notBefore is set, earlier dates are
// rejected (used when finalizing against the start date).
func (p *prompter) date(prompt string, notBefore *time.Time) (time.Time, bool) {
	for {
		s := p.line(prompt)
		if s == "" {
			return time.Time{}, false
		}
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			fmt.Println("  Invalid date. Use the YYYY-MM-DD format.")
			if !p.confirm("  Retry? (y/n): ") {
				return time.Time{}, false
			}
			continue
		}
		if notBefore != nil && d.Before(*notBefore) {
			fmt.Println("  The end date cannot be earlier than the start date.")
			if !p.confirm("  Retry? (y/n): ") {
				return time.Time{}, false
			}
			continue
		}
		return d, true
	}
}

// float reads a floating point number; a comma decimal separator is
// tolerated.
func (p *prompter) float(prompt string) (float64, bool) {
	for {
		s := strings.ReplaceAll(p.line(prompt), ",", ".")
		if s == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			fmt.Println("  Invalid number.")
			if !p.confirm("  Retry? (y/n): ") {
				return 0, false
			}
			continue
		}
		return v, true
	}
}

// integer reads an int, bounded when minV/maxV are set.
func (p *prompter) integer(prompt string, minV, maxV *int) (int, bool) {
	for {
		s := p.line(prompt)
		if s == "" {
			return 0, false
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			fmt.Println("  Invalid number.")
			if !p.confirm("  Retry? (y/n): ") {
				return 0, false
			}
			continue
		}
		if minV != nil && v < *minV {
			fmt.Printf("  Must be >= %d.\n", *minV)
			continue
		}
		if maxV != nil && v > *maxV {
			fmt.Printf("  Must be <= %d.\n", *maxV)
			continue
		}
		return v, true
	}
}

func intPtr(v int) *int { return &v }
