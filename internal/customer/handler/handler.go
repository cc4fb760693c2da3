package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"titling/internal/customer/models"
	"titling/internal/customer/service"
	"titling/pkg/platform/httputil"
)

// Service defines the customer operations exposed over HTTP.
type Service interface {
	Refresh(ctx context.Context) error
	List() []models.Customer
	Get(id string) (models.Customer, error)
	State() (service.State, error)
	LastSync() time.Time

	UpdateDetails(ctx context.Context, customerID string, patch service.DetailsPatch) (models.Customer, error)
	UpdateBasicInfo(ctx context.Context, customerID string, patch service.BasicInfoPatch) (models.Customer, error)
	UpdatePotentialStrategies(ctx context.Context, customerID string, strategyIDs []string) (models.Customer, error)
	SetContratoATC(ctx context.Context, customerID string, signed bool) (models.Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) error

	ActivateStrategy(ctx context.Context, customerID, strategyID string) (models.Customer, error)
	UpdateStrategy(ctx context.Context, customerID, strategyID string, patch service.StrategyPatch) (models.Customer, error)
	SetStrategyStatus(ctx context.Context, customerID, strategyID string, target models.StrategyStatus) (models.Customer, error)
	UpdateStrategyCustomData(ctx context.Context, customerID, strategyID, key string, value any) (models.Customer, error)
	AddTask(ctx context.Context, customerID, strategyID string, task service.NewTask, detailsToMerge service.DetailsPatch) (models.Customer, error)
	UpdateTask(ctx context.Context, customerID, strategyID, taskID string, patch service.TaskPatch) (models.Customer, error)

	ExportCSV() string
	ImportCustomersCSV(ctx context.Context, csv string) (int, error)
	UpdateCustomersFromCSV(ctx context.Context, csv string) (service.CSVSummary, error)
	RemoteUpdateCustomersCSV(ctx context.Context, csv string) (int, error)
}

// Handler wires customer endpoints to the orchestrator.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func New(service Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts customer endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/refresh", h.HandleRefresh)
		r.Get("/export.csv", h.HandleExport)
		r.Post("/import", h.HandleImport)
		r.Post("/csv-update", h.HandleCSVUpdate)
		r.Post("/csv-remote-update", h.HandleCSVRemoteUpdate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Delete("/", h.HandleDelete)
			r.Patch("/", h.HandleUpdateDetails)
			r.Patch("/basic-info", h.HandleUpdateBasicInfo)
			r.Put("/potential-strategies", h.HandlePotentialStrategies)
			r.Put("/contrato-atc", h.HandleContratoATC)
			r.Post("/strategies", h.HandleActivateStrategy)

			r.Route("/strategies/{strategyID}", func(r chi.Router) {
				r.Patch("/", h.HandleUpdateStrategy)
				r.Put("/status", h.HandleStrategyStatus)
				r.Put("/custom-data/{key}", h.HandleCustomData)
				r.Post("/tasks", h.HandleAddTask)
				r.Patch("/tasks/{taskID}", h.HandleUpdateTask)
			})
		})
	})
}

// HandleList handles GET /customers.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State()
	httputil.WriteJSON(w, http.StatusOK, newListResponse(h.service.List(), state, err, h.service.LastSync()))
}

// HandleRefresh handles POST /customers/refresh.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.fail(w, r, "refresh", err)
		return
	}
	h.HandleList(w, r)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateDetails handles PATCH /customers/{id}.
func (h *Handler) HandleUpdateDetails(w http.ResponseWriter, r *http.Request) {
	patch, ok := httputil.DecodeJSON[service.DetailsPatch](w, r)
	if !ok {
		return
	}
	h.respond(w, r, "update details")(h.service.UpdateDetails(r.Context(), chi.URLParam(r, "id"), patch))
}

func (h *Handler) HandleUpdateBasicInfo(w http.ResponseWriter, r *http.Request) {
	patch, ok := httputil.DecodeJSON[service.BasicInfoPatch](w, r)
	if !ok {
		return
	}
	h.respond(w, r, "update basic info")(h.service.UpdateBasicInfo(r.Context(), chi.URLParam(r, "id"), patch))
}

func (h *Handler) HandlePotentialStrategies(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[PotentialStrategiesRequest](w, r)
	if !ok {
		return
	}
	h.respond(w, r, "update potential strategies")(h.service.UpdatePotentialStrategies(r.Context(), chi.URLParam(r, "id"), req.StrategyIDs))
}

func (h *Handler) HandleContratoATC(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[ContratoATCRequest](w, r)
	if !ok {
		return
	}
	h.respond(w, r, "set contrato atc")(h.service.SetContratoATC(r.Context(), chi.URLParam(r, "id"), *req.ContratoATC))
}

func (h *Handler) HandleActivateStrategy(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[ActivateStrategyRequest](w, r)
	if !ok {
		return
	}
	c, err := h.service.ActivateStrategy(r.Context(), chi.URLParam(r, "id"), req.StrategyID)
	if err != nil {
		h.fail(w, r, "activate strategy", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) HandleUpdateStrategy(w http.ResponseWriter, r *http.Request) {
	patch, ok := httputil.DecodeJSON[service.StrategyPatch](w, r)
	if !ok {
		return
	}
	h.respond(w, r, "update strategy")(h.service.UpdateStrategy(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "strategyID"), patch))
}

func (h *Handler) HandleStrategyStatus(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[StrategyStatusRequest](w, r)
	if !ok {
		return
	}
	h.respond(w, r, "set strategy status")(h.service.SetStrategyStatus(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "strategyID"), models.StrategyStatus(req.Status)))
}

func (h *Handler) HandleCustomData(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[CustomDataRequest](w, r)
	if !ok {
		return
	}
	h.respond(w, r, "update custom data")(h.service.UpdateStrategyCustomData(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "strategyID"), chi.URLParam(r, "key"), req.Value))
}

func (h *Handler) HandleAddTask(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[AddTaskRequest](w, r)
	if !ok {
		return
	}
	c, err := h.service.AddTask(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "strategyID"), req.NewTask, req.DetailsToMerge)
	if err != nil {
		h.fail(w, r, "add task", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	patch, ok := httputil.DecodeJSON[service.TaskPatch](w, r)
	if !ok {
		return
	}
	h.respond(w, r, "update task")(h.service.UpdateTask(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "strategyID"), chi.URLParam(r, "taskID"), patch))
}

// HandleExport handles GET /customers/export.csv.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="clientes_export_`+time.Now().Format(time.DateOnly)+`.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.service.ExportCSV()))
}

// HandleImport handles POST /customers/import with a raw CSV body.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	csv, ok := httputil.ReadText(w, r)
	if !ok {
		return
	}
	count, err := h.service.ImportCustomersCSV(r.Context(), csv)
	if err != nil {
		h.fail(w, r, "import csv", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CountResponse{Count: count})
}

// HandleCSVUpdate handles POST /customers/csv-update with a raw CSV body.
func (h *Handler) HandleCSVUpdate(w http.ResponseWriter, r *http.Request) {
	csv, ok := httputil.ReadText(w, r)
	if !ok {
		return
	}
	summary, err := h.service.UpdateCustomersFromCSV(r.Context(), csv)
	if err != nil {
		h.fail(w, r, "csv update", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) HandleCSVRemoteUpdate(w http.ResponseWriter, r *http.Request) {
	csv, ok := httputil.ReadText(w, r)
	if !ok {
		return
	}
	count, err := h.service.RemoteUpdateCustomersCSV(r.Context(), csv)
	if err != nil {
		h.fail(w, r, "csv remote update", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CountResponse{Count: count})
}

// respond writes the customer a mutation produced, or its error.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op string) func(models.Customer, error) {
	return func(c models.Customer, err error) {
		if err != nil {
			h.fail(w, r, op, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, c)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Warn(op+" failed",
		zap.String("path", r.URL.Path),
		zap.String("customer_id", chi.URLParam(r, "id")),
		zap.Error(err),
	)
	httputil.WriteError(w, err)
}

type validatable interface {
	Validate() error
}

// decodeValid decodes a request body and runs its validation.
func decodeValid[T any, PT interface {
	*T
	validatable
}](w http.ResponseWriter, r *http.Request) (T, bool) {
	req, ok := httputil.DecodeJSON[T](w, r)
	if !ok {
		return req, false
	}
	if err := PT(&req).Validate(); err != nil {
		httputil.WriteError(w, err)
		return req, false
	}
	return req, true
}
