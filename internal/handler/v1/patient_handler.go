package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/clinica-io/clinica-api/internal/domain/patient"
	"github.com/clinica-io/clinica-api/internal/service"
)

type PatientHandler struct {
	svc *service.PatientService
}

func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return &PatientHandler{svc: svc}
}

func (h *PatientHandler) Create(c *gin.Context) {
	var p patient.Patient
	if !bindJSON(c, &p) {
		return
	}
	created, err := h.svc.CreatePatient(c.Request.Context(), &p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, created)
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "patient-id")
	if !ok {
		return
	}
	p, err := h.svc.GetPatient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

// GetByDocument looks the patient up by the natural document key instead of
// the store id.
func (h *PatientHandler) GetByDocument(c *gin.Context) {
	p, err := h.svc.GetPatientByDocument(c.Request.Context(), c.Param("document"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *PatientHandler) List(c *gin.Context) {
	page, ok := parsePageRequest(c)
	if !ok {
		return
	}
	result, err := h.svc.ListPatients(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "patient-id")
	if !ok {
		return
	}
	var p patient.Patient
	if !bindJSON(c, &p) {
		return
	}
	updated, err := h.svc.UpdatePatient(c.Request.Context(), id, &p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, updated)
}

func (h *PatientHandler) Patch(c *gin.Context) {
	id, ok := parseUUID(c, "patient-id")
	if !ok {
		return
	}
	var cmd patient.UpdatePatientCommand
	if !bindJSON(c, &cmd) {
		return
	}
	updated, err := h.svc.PatchPatient(c.Request.Context(), id, &cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, updated)
}

func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "patient-id")
	if !ok {
		return
	}
	if err := h.svc.DeletePatient(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}
