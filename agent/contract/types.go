package contract

// Role identifies one of the fixed specialist capabilities. Every customer
// request flows through the three roles in order.
type Role string

const (
	RoleInventory Role = "inventory"
	RoleQuoting   Role = "quoting"
	RoleSales     Role = "sales"
)

// ToolResult is what an executed tool hands back to the model. Output is a
// human-readable string; Error is set instead when the tool itself refused.
type ToolResult struct {
	Tool   string `json:"tool"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// AvailabilityFinding is the inventory role's verdict on one requested line.
type AvailabilityFinding struct {
	RequestedName string `json:"requested_name"`
	MatchedName   string `json:"matched_name,omitempty"`
	Requested     int64  `json:"requested"`
	InStock       int64  `json:"in_stock"`
	Available     bool   `json:"available"`
	Restocked     bool   `json:"restocked,omitempty"`
}

// InventoryReport is the structured reply the inventory role must produce.
type InventoryReport struct {
	AsOf     string                `json:"as_of"`
	Findings []AvailabilityFinding `json:"findings"`
	Notes    string                `json:"notes,omitempty"`
}
