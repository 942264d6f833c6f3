package domain

// Stage is one of the fifteen ordered phases a project passes through
type Stage string

const (
	StageContractLaunch     Stage = "1 - Lançamento do Contrato"
	StageProjectActivation  Stage = "2 - Ativação do Projeto"
	StageTextReview         Stage = "3 - Revisão de Texto / Preparação das Fotos"
	StageCreation12         Stage = "4 - Criação (1ª e 2ª AP)"
	StageLayoutReview       Stage = "5 - Conferência do Layout"
	StageLayoutAdjustment   Stage = "5.1 - Ajuste Layout"
	StageCreation34         Stage = "6 - Criação (3ª e 4ª AP)"
	StageFinalApproval      Stage = "7 - Aprovação Final (Criação)"
	StageProductionPlanning Stage = "8 - Planejamento de Produção"
	StagePreProduction      Stage = "9 - Pré-Produção"
	StageProduction         Stage = "10 - Produção"
	StageQuality            Stage = "11 - Qualidade"
	StageDelivery           Stage = "12 - Entrega"
	StageAfterSales         Stage = "13 - Pós-Vendas"
	StageClosed             Stage = "14 - Contrato Encerrado"
)

// MacroStage is the coarse grouping of stages used by board and pipeline views
type MacroStage string

const (
	MacroService       MacroStage = "Atendimento"
	MacroClient        MacroStage = "Cliente"
	MacroPreparation   MacroStage = "Preparação"
	MacroCreation      MacroStage = "Criação"
	MacroPreProduction MacroStage = "Pré-Produção"
	MacroProduction    MacroStage = "Produção"
	MacroAfterSales    MacroStage = "Pós-Vendas"
)

// Sector names used by the catalog and the responsible lookup
const (
	SectorService    = "Atendimento"
	SectorCreation   = "Criação"
	SectorClient     = "Cliente"
	SectorTextReview = "Revisão de Texto"
	SectorPreProd    = "Pré-Produção"
	SectorProduction = "Produção"

	// DefaultResponsible is assigned when a sector has no owner
	DefaultResponsible = "Sistema"
	// DefaultStageOffsetDays applies to stages without an explicit offset
	DefaultStageOffsetDays = 3
)

var stageOrder = []Stage{
	StageContractLaunch,
	StageProjectActivation,
	StageTextReview,
	StageCreation12,
	StageLayoutReview,
	StageLayoutAdjustment,
	StageCreation34,
	StageFinalApproval,
	StageProductionPlanning,
	StagePreProduction,
	StageProduction,
	StageQuality,
	StageDelivery,
	StageAfterSales,
	StageClosed,
}

var macroOrder = []MacroStage{
	MacroService,
	MacroClient,
	MacroPreparation,
	MacroCreation,
	MacroPreProduction,
	MacroProduction,
	MacroAfterSales,
}

var stageMacros = map[Stage]MacroStage{
	StageContractLaunch:     MacroService,
	StageProjectActivation:  MacroService,
	StageTextReview:         MacroPreparation,
	StageCreation12:         MacroCreation,
	StageLayoutReview:       MacroCreation,
	StageLayoutAdjustment:   MacroCreation,
	StageCreation34:         MacroCreation,
	StageFinalApproval:      MacroCreation,
	StageProductionPlanning: MacroPreProduction,
	StagePreProduction:      MacroPreProduction,
	StageProduction:         MacroProduction,
	StageQuality:            MacroProduction,
	StageDelivery:           MacroProduction,
	StageAfterSales:         MacroAfterSales,
	StageClosed:             MacroAfterSales,
}

var stageOffsetDays = map[Stage]int{
	StageContractLaunch:     1,
	StageProjectActivation:  3,
	StageTextReview:         5,
	StageCreation12:         7,
	StageLayoutReview:       2,
	StageLayoutAdjustment:   2,
	StageCreation34:         5,
	StageFinalApproval:      2,
	StageProductionPlanning: 3,
	StagePreProduction:      5,
	StageProduction:         7,
	StageQuality:            2,
	StageDelivery:           1,
}

var sectorResponsibles = map[string]string{
	SectorService:    "Keyla Nascimento",
	SectorCreation:   "Marcos Letro",
	SectorClient:     "Cliente",
	SectorTextReview: "Larissa Elias",
	SectorPreProd:    "Carlos Augusto",
	SectorProduction: "Ricardo Mayrink",
}

var criticalActivities = map[int]struct{}{
	1: {}, 4: {}, 8: {}, 13: {}, 19: {}, 20: {}, 23: {}, 25: {},
}

// Activity is one entry of the fixed workflow catalog
type Activity struct {
	Number int        `json:"number"`
	Name   string     `json:"name"`
	Sector string     `json:"sector"`
	Stage  Stage      `json:"stage"`
	Macro  MacroStage `json:"macro_stage"`
}

// Critical reports whether the activity belongs to the critical set
func (a Activity) Critical() bool {
	return IsCriticalActivity(a.Number)
}

var catalog = []Activity{
	{1, "Lançamento do Contrato", SectorService, StageContractLaunch, MacroService},
	{2, "Apresentação do Projeto", SectorService, StageProjectActivation, MacroService},
	{3, "Agendamento de Criação", SectorService, StageProjectActivation, MacroService},
	{4, "Reunião de Criação", SectorCreation, StageProjectActivation, MacroService},
	{5, "Envio de Fotos e Textos", SectorClient, StageTextReview, MacroClient},
	{6, "Revisão de Texto", SectorTextReview, StageTextReview, MacroPreparation},
	{7, "Preparação de Fotos", SectorPreProd, StageTextReview, MacroPreparation},
	{8, "Criação", SectorCreation, StageCreation12, MacroCreation},
	{9, "1ª Apresentação do Convite", SectorCreation, StageCreation12, MacroCreation},
	{10, "1º Ajuste", SectorCreation, StageCreation12, MacroCreation},
	{11, "2ª Apresentação do Convite", SectorCreation, StageCreation12, MacroCreation},
	{12, "2º Ajuste", SectorCreation, StageCreation12, MacroCreation},
	{13, "Conferência do Layout", SectorService, StageLayoutReview, MacroCreation},
	{14, "Ajuste Layout", SectorCreation, StageLayoutAdjustment, MacroCreation},
	{15, "3ª Apresentação do Convite", SectorCreation, StageCreation34, MacroCreation},
	{16, "3º Ajuste", SectorCreation, StageCreation34, MacroCreation},
	{17, "4ª Apresentação do Convite", SectorCreation, StageCreation34, MacroCreation},
	{18, "4º Ajuste", SectorCreation, StageCreation34, MacroCreation},
	{19, "Aprovação Final", SectorClient, StageFinalApproval, MacroCreation},
	{20, "Planejamento de Produção", SectorProduction, StageProductionPlanning, MacroPreProduction},
	{21, "Saída de Convite", SectorPreProd, StagePreProduction, MacroPreProduction},
	{22, "Impressão", SectorPreProd, StagePreProduction, MacroPreProduction},
	{23, "Produção", SectorProduction, StageProduction, MacroProduction},
	{24, "Qualidade", SectorProduction, StageQuality, MacroProduction},
	{25, "Entrega", SectorProduction, StageDelivery, MacroProduction},
}

// Catalog returns a copy of the ordered activity catalog
func Catalog() []Activity {
	out := make([]Activity, len(catalog))
	copy(out, catalog)
	return out
}

// ActivitiesForStage returns the catalog entries of a stage in catalog order
func ActivitiesForStage(stage Stage) []Activity {
	var out []Activity
	for _, a := range catalog {
		if a.Stage == stage {
			out = append(out, a)
		}
	}
	return out
}

// IsCriticalActivity reports whether a catalog number is critical
func IsCriticalActivity(number int) bool {
	_, ok := criticalActivities[number]
	return ok
}

// ResponsibleForSector resolves the person owning a sector
func ResponsibleForSector(sector string) string {
	if name, ok := sectorResponsibles[sector]; ok {
		return name
	}
	return DefaultResponsible
}

// Stages returns the fifteen stages in workflow order
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// MacroStages returns the seven macro-stages in workflow order
func MacroStages() []MacroStage {
	out := make([]MacroStage, len(macroOrder))
	copy(out, macroOrder)
	return out
}

// Index returns the position of the stage in workflow order, or -1
func (s Stage) Index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether the stage is part of the workflow
func (s Stage) IsValid() bool {
	return s.Index() >= 0
}

// Next returns the following stage; false at the last stage or for unknown stages
func (s Stage) Next() (Stage, bool) {
	i := s.Index()
	if i < 0 || i+1 >= len(stageOrder) {
		return "", false
	}
	return stageOrder[i+1], true
}

// IsLast reports whether the stage closes the workflow
func (s Stage) IsLast() bool {
	return s.Index() == len(stageOrder)-1
}

// Macro returns the macro-stage derived from the stage
func (s Stage) Macro() MacroStage {
	if m, ok := stageMacros[s]; ok {
		return m
	}
	return MacroService
}

// OffsetDays returns the due-date offset applied to tasks generated for the stage
func (s Stage) OffsetDays() int {
	if d, ok := stageOffsetDays[s]; ok {
		return d
	}
	return DefaultStageOffsetDays
}

// Index returns the position of the macro-stage in workflow order, or -1
func (m MacroStage) Index() int {
	for i, mm := range macroOrder {
		if mm == m {
			return i
		}
	}
	return -1
}
