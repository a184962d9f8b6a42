package models

// Requests for series HTTP endpoints. Defined in domain for consistency and reuse.

type ReadRequest struct {
	Database string `query:"db" json:"db" validate:"required"`
	Names    string `query:"names" json:"names"` // comma-separated; empty reads every quarterly series
	Start    string `query:"start" json:"start"` // YYYYQn or YYYY; empty clamps to earliest stored
	End      string `query:"end" json:"end"`     // YYYYQn or YYYY; empty clamps to latest stored
	Format   string `query:"format" json:"format" default:"json" validate:"oneof=json csv"`
}

type CatalogRequest struct {
	Database string `query:"db" json:"db" validate:"required"`
	Pattern  string `query:"pattern" json:"pattern" default:"*"`
}

type CompareRequest struct {
	Databases string `query:"dbs" json:"dbs"` // comma-separated mnemonics; empty compares across all
	Series    string `query:"series" json:"series" validate:"required"`
	Start     string `query:"start" json:"start"`
	End       string `query:"end" json:"end"`
	Format    string `query:"format" json:"format" default:"json" validate:"oneof=json csv"`
}
