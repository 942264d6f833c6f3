package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/metrics"
	"contract-workflow-api/internal/repository"
)

// stageEntry performs everything that follows a validated stage change:
// persisting the stage, generating its tasks, notifying and refreshing metrics
type stageEntry struct {
	projectRepo  repository.ProjectRepository
	contractRepo repository.ContractRepository
	engine       WorkflowEngine
	generator    TaskGenerator
	dispatcher   NotificationDispatcher
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// enter moves project to target. contract may be nil and is then loaded on demand.
func (s *stageEntry) enter(ctx context.Context, project *domain.Project, contract *domain.Contract, target domain.Stage, baseDate time.Time, result *dto.OperationResult) error {
	previous := project.CurrentStage
	project.MoveTo(target)
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return fmt.Errorf("failed to update project stage: %w", err)
	}
	s.metrics.RecordStageAdvance(string(target.Macro()))
	result.Log(fmt.Sprintf("Projeto movido de '%s' para '%s'", previous, target))

	tasks, err := s.generator.GenerateStageTasks(ctx, project.ID, target, baseDate)
	if err != nil {
		return fmt.Errorf("failed to generate stage tasks: %w", err)
	}
	result.Log(fmt.Sprintf("%d tarefa(s) criada(s) para a etapa '%s'", len(tasks), target))
	s.notifyAssignees(ctx, tasks, result)

	if target == domain.StageFinalApproval || target == domain.StageProduction {
		if contract == nil {
			contract, err = s.contractRepo.FindByID(ctx, project.ContractID)
			if err != nil {
				return fmt.Errorf("failed to load contract: %w", err)
			}
		}
		if err := s.onMilestone(ctx, project, contract, target, result); err != nil {
			return err
		}
	}

	progress, risk, err := s.engine.RefreshProjectMetrics(ctx, project.ID)
	if err != nil {
		return err
	}
	project.Progress, project.Risk = progress, risk
	if risk == domain.RiskHigh {
		result.Alerts = append(result.Alerts, "Projeto classificado com RISCO ALTO")
	}

	result.Set("project_id", project.ID).
		Set("previous_stage", previous).
		Set("new_stage", target).
		Set("macro_stage", project.MacroStage).
		Set("tasks_created", len(tasks)).
		Set("progress", progress).
		Set("risk", risk)
	return nil
}

func (s *stageEntry) onMilestone(ctx context.Context, project *domain.Project, contract *domain.Contract, target domain.Stage, result *dto.OperationResult) error {
	switch target {
	case domain.StageFinalApproval:
		recipients, err := s.dispatcher.NotifyApprovalRequested(ctx, contract, project)
		if err != nil {
			s.logger.Warn("Failed to request approval", zap.Error(err))
		}
		result.Notified(recipients...)
	case domain.StageProduction:
		if contract.Status == domain.ContractStatusActive {
			if err := s.contractRepo.UpdateStatus(ctx, contract.ID, domain.ContractStatusInProgress); err != nil {
				return fmt.Errorf("failed to update contract status: %w", err)
			}
			contract.Status = domain.ContractStatusInProgress
			result.Log("Contrato marcado como Em Andamento")
		}
	}
	return nil
}

// notifyAssignees dispatches one assignment notification per task. Failures are logged only.
func (s *stageEntry) notifyAssignees(ctx context.Context, tasks []*domain.Task, result *dto.OperationResult) {
	for _, task := range tasks {
		recipient, err := s.dispatcher.NotifyTaskAssigned(ctx, task)
		if err != nil {
			s.logger.Warn("Failed to notify assignee",
				zap.String("task_id", task.ID.String()),
				zap.Error(err),
			)
			continue
		}
		result.Notified(recipient)
	}
}
