//go:build !race

package fintrack

func passwordHashCost() int {
	return 12
}
