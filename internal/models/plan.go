package models

// PlanLimits caps what a subscription tier may use
type PlanLimits struct {
	Projects int `json:"projects"`
	Seats    int `json:"seats"`
}

// PlanDef is one entry of the pricing catalog
type PlanDef struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Limits PlanLimits `json:"limits"`
	Price  float64    `json:"price"`
}

// PlanPatch is a partial update. Limits replaces the whole limits object.
type PlanPatch struct {
	Name   *string     `json:"name,omitempty"`
	Limits *PlanLimits `json:"limits,omitempty"`
	Price  *float64    `json:"price,omitempty"`
}

// Apply merges the patch over p
func (patch PlanPatch) Apply(p *PlanDef) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Limits != nil {
		p.Limits = *patch.Limits
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
}
