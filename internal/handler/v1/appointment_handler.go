package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/clinica-io/clinica-api/internal/domain/appointment"
	"github.com/clinica-io/clinica-api/internal/service"
)

type AppointmentHandler struct {
	svc *service.AppointmentService
}

func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var cmd service.CreateAppointmentCommand
	if !bindJSON(c, &cmd) {
		return
	}
	created, err := h.svc.CreateAppointment(c.Request.Context(), &cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, created)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "appointment-id")
	if !ok {
		return
	}
	a, err := h.svc.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	page, ok := parsePageRequest(c)
	if !ok {
		return
	}
	result, err := h.svc.ListAppointments(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *AppointmentHandler) Replace(c *gin.Context) {
	id, ok := parseUUID(c, "appointment-id")
	if !ok {
		return
	}
	var a appointment.Appointment
	if !bindJSON(c, &a) {
		return
	}
	updated, err := h.svc.ReplaceAppointment(c.Request.Context(), id, &a)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, updated)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "appointment-id")
	if !ok {
		return
	}
	var cmd appointment.UpdateAppointmentCommand
	if !bindJSON(c, &cmd) {
		return
	}
	updated, err := h.svc.UpdateAppointment(c.Request.Context(), id, &cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, updated)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "appointment-id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAppointment(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

// ListByDoctorDocument serves the document-keyed appointment lookup for
// doctors.
func (h *AppointmentHandler) ListByDoctorDocument(c *gin.Context) {
	page, ok := parsePageRequest(c)
	if !ok {
		return
	}
	result, err := h.svc.ListByDoctorDocument(c.Request.Context(), c.Param("document"), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

// ListByPatientDocument serves the document-keyed appointment lookup for
// patients.
func (h *AppointmentHandler) ListByPatientDocument(c *gin.Context) {
	page, ok := parsePageRequest(c)
	if !ok {
		return
	}
	result, err := h.svc.ListByPatientDocument(c.Request.Context(), c.Param("document"), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}
