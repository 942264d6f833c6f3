package dto

import (
	"contract-workflow-api/internal/domain"
)

// StageInfo describes one fine-grained stage of the workflow
type StageInfo struct {
	Index      int               `json:"index" example:"3"`
	Stage      domain.Stage      `json:"stage" example:"4 - Criação (1ª e 2ª AP)"`
	Macro      domain.MacroStage `json:"macro_stage" example:"Criação"`
	OffsetDays int               `json:"offset_days" example:"14"`
}

// CatalogActivity is a catalog entry with its critical flag resolved
type CatalogActivity struct {
	domain.Activity
	Critical bool `json:"critical"`
}

// CatalogResponse exposes the fixed workflow definition
type CatalogResponse struct {
	Stages      []StageInfo         `json:"stages"`
	MacroStages []domain.MacroStage `json:"macro_stages"`
	Activities  []CatalogActivity   `json:"activities"`
}

// NewCatalogResponse builds the response from the domain catalog
func NewCatalogResponse() *CatalogResponse {
	resp := &CatalogResponse{
		MacroStages: domain.MacroStages(),
	}
	for _, s := range domain.Stages() {
		resp.Stages = append(resp.Stages, StageInfo{
			Index:      s.Index(),
			Stage:      s,
			Macro:      s.Macro(),
			OffsetDays: s.OffsetDays(),
		})
	}
	for _, a := range domain.Catalog() {
		resp.Activities = append(resp.Activities, CatalogActivity{Activity: a, Critical: a.Critical()})
	}
	return resp
}
