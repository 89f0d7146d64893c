// Package soldo exposes the Soldo Business API resources on top of a
// server.ResourceServer.
package soldo

import "github.com/crmarques/soldo/resource"

const (
	KindWallet        = "Wallet"
	KindCard          = "Card"
	KindRule          = "Rule"
	KindEmployee      = "Employee"
	KindExpenseCentre = "ExpenseCentre"
	KindCompany       = "Company"
	KindTransaction   = "Transaction"
)

const RelationshipRules = "rules"

// Kinds returns the Soldo resource catalogue.
func Kinds() []resource.Kind {
	return []resource.Kind{
		{Name: KindWallet, BasePath: "/wallets", Path: "/{id}"},
		{
			Name:          KindCard,
			BasePath:      "/cards",
			Path:          "/{id}",
			Relationships: map[string]string{RelationshipRules: KindRule},
			EventType:     "Card",
		},
		{Name: KindRule, BasePath: "/rules", Path: "/{name}"},
		{
			Name:      KindEmployee,
			BasePath:  "/employees",
			Path:      "/{id}",
			WhiteList: []string{"department", "email", "mobile", "custom_reference_id", "job_title"},
			EventType: "Employee",
		},
		{
			Name:      KindExpenseCentre,
			BasePath:  "/expensecentres",
			Path:      "/{id}",
			WhiteList: []string{"assignee", "custom_reference_id", "status"},
		},
		{Name: KindCompany, BasePath: "/company"},
		{Name: KindTransaction, BasePath: "/transactions", Path: "/{id}", EventType: "Transaction"},
	}
}

// NewRegistry registers Kinds plus any extra kinds, e.g. to add casts.
func NewRegistry(extra ...resource.Kind) (*resource.Registry, error) {
	return resource.NewRegistry(append(Kinds(), extra...)...)
}
