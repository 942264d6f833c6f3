package metrics

// IncrementContractCreated increments the contract creation counter
func (m *Metrics) IncrementContractCreated() {
	m.safeExecute("IncrementContractCreated", func() {
		m.ContractCreatedTotal.Inc()
	})
}

// RecordStageAdvance counts a project entering a stage of the given macro-stage
func (m *Metrics) RecordStageAdvance(macroStage string) {
	m.safeExecute("RecordStageAdvance", func() {
		m.StageAdvancesTotal.WithLabelValues(macroStage).Inc()
	})
}

// AddTasksGenerated adds n generated tasks
func (m *Metrics) AddTasksGenerated(n int) {
	if n <= 0 {
		return
	}
	m.safeExecute("AddTasksGenerated", func() {
		m.TasksGeneratedTotal.Add(float64(n))
	})
}

// RecordBlockedOperation counts an operation rejected by a business rule
func (m *Metrics) RecordBlockedOperation(action string) {
	m.safeExecute("RecordBlockedOperation", func() {
		m.BlockedOperationsTotal.WithLabelValues(action).Inc()
	})
}

// RecordNotification counts a created notification by type
func (m *Metrics) RecordNotification(notificationType string) {
	m.safeExecute("RecordNotification", func() {
		m.NotificationsTotal.WithLabelValues(notificationType).Inc()
	})
}

// SetContractsTotal sets total contracts gauge
func (m *Metrics) SetContractsTotal(count int64) {
	m.safeExecute("SetContractsTotal", func() {
		m.ContractsTotal.Set(float64(count))
	})
}

// SetProjectsTotal sets total projects gauge
func (m *Metrics) SetProjectsTotal(count int64) {
	m.safeExecute("SetProjectsTotal", func() {
		m.ProjectsTotal.Set(float64(count))
	})
}

// SetProjectsByRisk replaces the per-risk project gauges
func (m *Metrics) SetProjectsByRisk(counts map[string]int64) {
	m.safeExecute("SetProjectsByRisk", func() {
		m.ProjectsByRisk.Reset()
		for risk, count := range counts {
			m.ProjectsByRisk.WithLabelValues(risk).Set(float64(count))
		}
	})
}

// SetOverdueTasks sets the overdue tasks gauge
func (m *Metrics) SetOverdueTasks(count int) {
	m.safeExecute("SetOverdueTasks", func() {
		m.OverdueTasks.Set(float64(count))
	})
}
