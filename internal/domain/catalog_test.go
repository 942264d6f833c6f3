package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_HasTwentyFiveOrderedActivities(t *testing.T) {
	activities := Catalog()
	require.Len(t, activities, 25)

	for i, a := range activities {
		assert.Equal(t, i+1, a.Number, "catalog must be numbered in order")
		assert.True(t, a.Stage.IsValid(), "activity %d has unknown stage %q", a.Number, a.Stage)
		assert.NotEmpty(t, a.Name)
	}
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	activities := Catalog()
	activities[0].Name = "changed"

	assert.Equal(t, "Lançamento do Contrato", Catalog()[0].Name)
}

func TestActivitiesForStage(t *testing.T) {
	tests := []struct {
		stage    Stage
		expected []int
	}{
		{StageContractLaunch, []int{1}},
		{StageProjectActivation, []int{2, 3, 4}},
		{StageTextReview, []int{5, 6, 7}},
		{StageCreation12, []int{8, 9, 10, 11, 12}},
		{StageLayoutReview, []int{13}},
		{StageLayoutAdjustment, []int{14}},
		{StageCreation34, []int{15, 16, 17, 18}},
		{StageFinalApproval, []int{19}},
		{StageProductionPlanning, []int{20}},
		{StagePreProduction, []int{21, 22}},
		{StageProduction, []int{23}},
		{StageQuality, []int{24}},
		{StageDelivery, []int{25}},
		{StageAfterSales, nil},
		{StageClosed, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			var numbers []int
			for _, a := range ActivitiesForStage(tt.stage) {
				numbers = append(numbers, a.Number)
			}
			assert.Equal(t, tt.expected, numbers)
		})
	}
}

func TestIsCriticalActivity(t *testing.T) {
	critical := map[int]bool{1: true, 4: true, 8: true, 13: true, 19: true, 20: true, 23: true, 25: true}

	for n := 0; n <= 26; n++ {
		assert.Equal(t, critical[n], IsCriticalActivity(n), "activity %d", n)
	}
}

func TestResponsibleForSector(t *testing.T) {
	assert.Equal(t, "Keyla Nascimento", ResponsibleForSector(SectorService))
	assert.Equal(t, "Marcos Letro", ResponsibleForSector(SectorCreation))
	assert.Equal(t, "Cliente", ResponsibleForSector(SectorClient))
	assert.Equal(t, "Larissa Elias", ResponsibleForSector(SectorTextReview))
	assert.Equal(t, "Carlos Augusto", ResponsibleForSector(SectorPreProd))
	assert.Equal(t, "Ricardo Mayrink", ResponsibleForSector(SectorProduction))
	assert.Equal(t, DefaultResponsible, ResponsibleForSector("Financeiro"))
}

func TestStage_OrderAndNext(t *testing.T) {
	stages := Stages()
	require.Len(t, stages, 15)

	for i, s := range stages {
		assert.Equal(t, i, s.Index())
		next, ok := s.Next()
		if i == len(stages)-1 {
			assert.False(t, ok)
			assert.True(t, s.IsLast())
			continue
		}
		assert.True(t, ok)
		assert.Equal(t, stages[i+1], next)
	}

	assert.Equal(t, -1, Stage("99 - Desconhecida").Index())
	_, ok := Stage("99 - Desconhecida").Next()
	assert.False(t, ok)
}

func TestStage_MacroIsDerived(t *testing.T) {
	assert.Equal(t, MacroService, StageContractLaunch.Macro())
	assert.Equal(t, MacroService, StageProjectActivation.Macro())
	assert.Equal(t, MacroPreparation, StageTextReview.Macro())
	assert.Equal(t, MacroCreation, StageLayoutAdjustment.Macro())
	assert.Equal(t, MacroPreProduction, StageProductionPlanning.Macro())
	assert.Equal(t, MacroProduction, StageDelivery.Macro())
	assert.Equal(t, MacroAfterSales, StageAfterSales.Macro())
	assert.Equal(t, MacroAfterSales, StageClosed.Macro())
	assert.Equal(t, MacroService, Stage("").Macro())

	// macro order never decreases along the stage order
	last := -1
	for _, s := range Stages() {
		idx := s.Macro().Index()
		assert.GreaterOrEqual(t, idx, last, "stage %s", s)
		last = idx
	}
}

func TestStage_OffsetDays(t *testing.T) {
	assert.Equal(t, 1, StageContractLaunch.OffsetDays())
	assert.Equal(t, 7, StageCreation12.OffsetDays())
	assert.Equal(t, 1, StageDelivery.OffsetDays())
	assert.Equal(t, DefaultStageOffsetDays, StageAfterSales.OffsetDays())
	assert.Equal(t, DefaultStageOffsetDays, Stage("x").OffsetDays())
}

func TestTask_ApplyDefaults(t *testing.T) {
	task := &Task{Title: "Reunião", Stage: StageCreation34}
	task.ApplyDefaults()

	assert.Equal(t, MacroCreation, task.MacroStage)
	assert.Equal(t, "Reunião", task.Activity)
	assert.Equal(t, DefaultSector, task.Sector)
	assert.Equal(t, TaskStatusPending, task.Status)
}

func TestTask_Overdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	task := &Task{DueDate: now.AddDate(0, 0, -10), Status: TaskStatusPending}

	assert.True(t, task.IsOverdue(now))
	assert.Equal(t, 10, task.DaysOverdue(now))

	task.Status = TaskStatusCompleted
	assert.False(t, task.IsOverdue(now))

	future := &Task{DueDate: now.Add(time.Hour)}
	assert.Equal(t, 0, future.DaysOverdue(now))
}

func TestDefaultPermissions(t *testing.T) {
	admin := DefaultPermissions(true)
	for _, k := range PermissionKeys() {
		assert.True(t, admin[k], "admin should hold %s", k)
	}

	member := DefaultPermissions(false)
	assert.True(t, member[PermDashboard])
	assert.True(t, member[PermContractsView])
	assert.True(t, member[PermTasksComplete])
	assert.False(t, member[PermContractsCreate])
	assert.False(t, member[PermAdmin])
	assert.Len(t, member, len(PermissionKeys()))
}
