package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/response"
	"contract-workflow-api/internal/service"
)

// ContractHandler handles contract lifecycle requests
type ContractHandler struct {
	contractService service.ContractService
}

// NewContractHandler creates a new instance of ContractHandler
func NewContractHandler(contractService service.ContractService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
	}
}

// CreateContract godoc
// @Summary      Launch a contract
// @Description  Creates the contract and its project at stage 1, generates the stage tasks and requests approval
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateContractRequest true "Contract"
// @Success      201 {object} response.SuccessResponse{data=dto.OperationResult}
// @Failure      400 {object} response.ErrorResponse "Invalid request"
// @Failure      422 {object} response.SuccessResponse{data=dto.OperationResult} "Blocked by a business rule"
// @Router       /contracts [post]
// @Security     BearerAuth
func (h *ContractHandler) CreateContract(c *gin.Context) {
	var req dto.CreateContractRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.contractService.CreateContract(c.Request.Context(), &req)
	sendOperation(c, service.ActionCreateContract, http.StatusCreated, result, err)
}

// ListContracts godoc
// @Summary      List contracts
// @Tags         contracts
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]domain.Contract}
// @Router       /contracts [get]
// @Security     BearerAuth
func (h *ContractHandler) ListContracts(c *gin.Context) {
	contracts, err := h.contractService.ListContracts(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, contracts)
}

// GetContract godoc
// @Summary      Get a contract
// @Tags         contracts
// @Produce      json
// @Param        contractId path string true "Contract ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=domain.Contract}
// @Failure      404 {object} response.ErrorResponse
// @Router       /contracts/{contractId} [get]
// @Security     BearerAuth
func (h *ContractHandler) GetContract(c *gin.Context) {
	contractID, ok := parseID(c, "contractId", "contract")
	if !ok {
		return
	}

	contract, err := h.contractService.GetContract(c.Request.Context(), contractID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, contract)
}

// UpdateContract godoc
// @Summary      Update a contract
// @Description  Partial update; value and period are revalidated
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        contractId path string true "Contract ID (UUID)"
// @Param        request body dto.UpdateContractRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=domain.Contract}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /contracts/{contractId} [put]
// @Security     BearerAuth
func (h *ContractHandler) UpdateContract(c *gin.Context) {
	contractID, ok := parseID(c, "contractId", "contract")
	if !ok {
		return
	}

	var req dto.UpdateContractRequest
	if !bindJSON(c, &req) {
		return
	}

	contract, err := h.contractService.UpdateContract(c.Request.Context(), contractID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, contract)
}

// ApproveContract godoc
// @Summary      Approve a contract
// @Description  Moves an Ativo contract to Em Andamento and its project to stage 2
// @Tags         contracts
// @Produce      json
// @Param        contractId path string true "Contract ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.OperationResult}
// @Failure      422 {object} response.SuccessResponse{data=dto.OperationResult}
// @Router       /contracts/{contractId}/approve [put]
// @Security     BearerAuth
func (h *ContractHandler) ApproveContract(c *gin.Context) {
	contractID, ok := parseID(c, "contractId", "contract")
	if !ok {
		return
	}

	result, err := h.contractService.ApproveContract(c.Request.Context(), contractID)
	sendOperation(c, service.ActionApproveContract, http.StatusOK, result, err)
}

// FinalizeContract godoc
// @Summary      Close a contract
// @Description  Blocked while the project has pending tasks
// @Tags         contracts
// @Produce      json
// @Param        contractId path string true "Contract ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.OperationResult}
// @Failure      422 {object} response.SuccessResponse{data=dto.OperationResult}
// @Router       /contracts/{contractId}/finalize [put]
// @Security     BearerAuth
func (h *ContractHandler) FinalizeContract(c *gin.Context) {
	contractID, ok := parseID(c, "contractId", "contract")
	if !ok {
		return
	}

	result, err := h.contractService.FinalizeContract(c.Request.Context(), contractID)
	sendOperation(c, service.ActionFinalizeContract, http.StatusOK, result, err)
}

// DeleteContract godoc
// @Summary      Delete a contract
// @Description  Removes the contract with its project and tasks. Blocked once production has started.
// @Tags         contracts
// @Produce      json
// @Param        contractId path string true "Contract ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.OperationResult}
// @Failure      422 {object} response.SuccessResponse{data=dto.OperationResult}
// @Router       /contracts/{contractId} [delete]
// @Security     BearerAuth
func (h *ContractHandler) DeleteContract(c *gin.Context) {
	contractID, ok := parseID(c, "contractId", "contract")
	if !ok {
		return
	}

	result, err := h.contractService.DeleteContract(c.Request.Context(), contractID)
	sendOperation(c, service.ActionDeleteContract, http.StatusOK, result, err)
}
