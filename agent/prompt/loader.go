package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/inventory.txt
	inventoryRaw string

	//go:embed template/quoting.txt
	quotingRaw string

	//go:embed template/sales.txt
	salesRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Inventory string
	Quoting   string
	Sales     string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// This is safe to call concurrently; the embed is compile-time, and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Inventory: strings.TrimSpace(inventoryRaw),
		Quoting:   strings.TrimSpace(quotingRaw),
		Sales:     strings.TrimSpace(salesRaw),
	}
}
