package common

import (
	"fmt"
	"strings"

	"indexpool-go/internal/models"
)

const (
	DefaultWidth = 80
	BoxWidth     = 78
)

// PrintSeparator prints a line of char repeated width times
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintHeader prints a title between two rules, preceded by a blank line
func PrintHeader(title string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(title)
	PrintSeparator("=", width)
}

// PrintFooter prints a closing summary line between two rules
func PrintFooter(message string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

// PrintBoxSeparator prints a box-drawing rule under a portfolio heading
func PrintBoxSeparator(width int) {
	fmt.Println("├" + strings.Repeat("─", width))
}

// BoxPrefix returns the box-drawing prefix for a list row
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// BoxDetailPrefix returns the prefix for detail lines nested under a row
func BoxDetailPrefix(isLast bool) string {
	if isLast {
		return "   "
	}
	return "│  "
}

// ShortAddress abbreviates a hex address to 0xabcd...wxyz.
func ShortAddress(address string) string {
	if len(address) > 12 {
		return address[:6] + "..." + address[len(address)-4:]
	}
	return address
}

// PrintHoldings prints one row per holding, formatted in the token's display units when known.
func PrintHoldings(holdings []models.Holding, venues *Venues) {
	for i, holding := range holdings {
		name := holding.Symbol
		amount := holding.Balance.String()
		if name == "" {
			name = ShortAddress(holding.Token)
		} else if token, err := venues.Resolve(name); err == nil {
			amount = venues.FormatAmount(token, holding.Balance)
		}
		fmt.Printf("%s %-15s: %30s\n", BoxPrefix(i == len(holdings)-1), name, amount)
	}
}
