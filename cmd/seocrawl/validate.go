package main

import "fmt"

func validateFlags(targetURL string, depth, maxPages, maxConcurrent int, rateLimitRPS float64) error {
	if depth < 0 || depth > 10 {
		return fmt.Errorf("depth must be between 0 and 10, got %d", depth)
	}
	if maxPages <= 0 {
		return fmt.Errorf("max-pages must be positive, got %d", maxPages)
	}
	if maxConcurrent <= 0 || maxConcurrent > 200 {
		return fmt.Errorf("concurrent must be between 1 and 200, got %d", maxConcurrent)
	}
	if rateLimitRPS <= 0 {
		return fmt.Errorf("rps must be positive, got %v", rateLimitRPS)
	}
	return nil
}
