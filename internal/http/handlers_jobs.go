package httpx

import (
	"errors"
	"net/http"

	"github.com/masumi-network/kodosumi-bridge/internal/data"
	"github.com/masumi-network/kodosumi-bridge/internal/domain/model"
	"github.com/masumi-network/kodosumi-bridge/internal/service"
)

// JobHandlers exposes job submission and status queries.
type JobHandlers struct {
	Orchestrator *service.Orchestrator

	// Payment identity advertised back to purchasers.
	AgentIdentifier string
	SellerVKey      string
	Amount          int64
	Unit            string
}

// StartJobRequest is the submission body.
type StartJobRequest struct {
	IdentifierFromPurchaser string         `json:"identifier_from_purchaser"`
	InputData               map[string]any `json:"input_data"`
}

type amountEntry struct {
	Amount int64  `json:"amount"`
	Unit   string `json:"unit"`
}

// StartJob handles POST /start_job: it validates the submission, creates the
// payment request, and returns the details the purchaser needs to pay.
func (h *JobHandlers) StartJob(w http.ResponseWriter, r *http.Request) {
	var req StartJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.IdentifierFromPurchaser == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: model.ErrCodeValidation,
			Err:     errors.New("identifier_from_purchaser is required"),
		})
		return
	}

	job, err := h.Orchestrator.Submit(r.Context(), req.IdentifierFromPurchaser, req.InputData)
	if err != nil {
		writeSubmitError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":                    "success",
		"job_id":                    job.ID,
		"blockchainIdentifier":      job.Payment.BlockchainIdentifier,
		"submitResultTime":          job.Payment.SubmitResultTime,
		"unlockTime":                job.Payment.UnlockTime,
		"externalDisputeUnlockTime": job.Payment.ExternalDisputeUnlockTime,
		"agentIdentifier":           h.AgentIdentifier,
		"sellerVkey":                h.SellerVKey,
		"identifierFromPurchaser":   job.PurchaserID,
		"input_hash":                job.InputHash,
		"amounts":                   []amountEntry{{Amount: h.Amount, Unit: h.Unit}},
	})
}

func writeSubmitError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: model.ErrCodeValidation,
			Err:     err,
		})
		return
	}

	WriteError(w, ErrorParams{
		Code:    http.StatusInternalServerError,
		ErrCode: model.ErrorCode(err),
		Err:     err,
	})
}

// Status handles GET /status?job_id=...: it reports the job's lifecycle
// state and, for completed jobs, the extracted result.
func (h *JobHandlers) Status(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: model.ErrCodeValidation,
			Err:     errors.New("job_id query parameter is required"),
		})
		return
	}

	view, err := h.Orchestrator.Status(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			WriteError(w, ErrorParams{
				Code:    http.StatusNotFound,
				ErrCode: "job_not_found",
				Err:     err,
			})
			return
		}
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "internal_error",
			Err:     err,
		})
		return
	}

	payload := map[string]any{
		"job_id":  view.Job.ID,
		"status":  string(view.Job.Status),
		"message": view.Job.Message,
	}
	switch {
	case view.Job.Status == model.JobStatusCompleted:
		if view.Result != nil {
			payload["result"] = *view.Result
		} else {
			payload["result"] = nil
		}
	case view.Job.Error != nil:
		payload["result"] = nil
		payload["error"] = view.Job.Error
	}

	WriteJSON(w, http.StatusOK, payload)
}
