package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
)

func TestIncrementContractCreated(t *testing.T) {
	m := getTestMetrics()

	initial := getCounterValue(t, m.ContractCreatedTotal)
	m.IncrementContractCreated()

	assert.Equal(t, initial+1, getCounterValue(t, m.ContractCreatedTotal))
}

func TestAddTasksGenerated(t *testing.T) {
	m := getTestMetrics()

	m.AddTasksGenerated(3)
	m.AddTasksGenerated(0)
	m.AddTasksGenerated(-2)

	assert.Equal(t, float64(3), getCounterValue(t, m.TasksGeneratedTotal))
}

func TestLabelledCounters(t *testing.T) {
	m := getTestMetrics()

	m.RecordStageAdvance("Criação")
	m.RecordStageAdvance("Criação")
	m.RecordStageAdvance("Produção")
	m.RecordBlockedOperation("excluir_contrato")
	m.RecordNotification("atraso")

	assert.Equal(t, float64(2), getCounterValue(t, m.StageAdvancesTotal.WithLabelValues("Criação")))
	assert.Equal(t, float64(1), getCounterValue(t, m.StageAdvancesTotal.WithLabelValues("Produção")))
	assert.Equal(t, float64(1), getCounterValue(t, m.BlockedOperationsTotal.WithLabelValues("excluir_contrato")))
	assert.Equal(t, float64(1), getCounterValue(t, m.NotificationsTotal.WithLabelValues("atraso")))
}

func TestWorkflowGauges(t *testing.T) {
	m := getTestMetrics()

	tests := []struct {
		name  string
		count int64
	}{
		{"zero", 0},
		{"one", 1},
		{"many", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.SetContractsTotal(tt.count)
			m.SetProjectsTotal(tt.count)
			m.SetOverdueTasks(int(tt.count))

			assert.Equal(t, float64(tt.count), getGaugeValue(t, m.ContractsTotal))
			assert.Equal(t, float64(tt.count), getGaugeValue(t, m.ProjectsTotal))
			assert.Equal(t, float64(tt.count), getGaugeValue(t, m.OverdueTasks))
		})
	}
}

func TestSetProjectsByRiskResetsStaleTiers(t *testing.T) {
	m := getTestMetrics()

	m.SetProjectsByRisk(map[string]int64{"Alto": 2, "Baixo": 5})
	m.SetProjectsByRisk(map[string]int64{"Baixo": 7})

	assert.Equal(t, float64(7), getGaugeValue(t, m.ProjectsByRisk.WithLabelValues("Baixo")))
	// Alto was dropped by the reset, so reading it recreates the series at zero
	assert.Equal(t, float64(0), getGaugeValue(t, m.ProjectsByRisk.WithLabelValues("Alto")))
}

func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Failed to write counter metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("Failed to write gauge metric: %v", err)
	}
	return metric.Gauge.GetValue()
}
