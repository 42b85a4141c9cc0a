package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/clinica-io/clinica-api/internal/domain/doctor"
	"github.com/clinica-io/clinica-api/internal/service"
)

type DoctorHandler struct {
	svc *service.DoctorService
}

func NewDoctorHandler(svc *service.DoctorService) *DoctorHandler {
	return &DoctorHandler{svc: svc}
}

func (h *DoctorHandler) Create(c *gin.Context) {
	var d doctor.Doctor
	if !bindJSON(c, &d) {
		return
	}
	created, err := h.svc.CreateDoctor(c.Request.Context(), &d)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, created)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "doctor-id")
	if !ok {
		return
	}
	d, err := h.svc.GetDoctor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

// GetByDocument looks the doctor up by the natural document key instead of
// the store id.
func (h *DoctorHandler) GetByDocument(c *gin.Context) {
	d, err := h.svc.GetDoctorByDocument(c.Request.Context(), c.Param("document"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

func (h *DoctorHandler) List(c *gin.Context) {
	page, ok := parsePageRequest(c)
	if !ok {
		return
	}
	result, err := h.svc.ListDoctors(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *DoctorHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "doctor-id")
	if !ok {
		return
	}
	var d doctor.Doctor
	if !bindJSON(c, &d) {
		return
	}
	updated, err := h.svc.UpdateDoctor(c.Request.Context(), id, &d)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, updated)
}

func (h *DoctorHandler) Patch(c *gin.Context) {
	id, ok := parseUUID(c, "doctor-id")
	if !ok {
		return
	}
	var cmd doctor.UpdateDoctorCommand
	if !bindJSON(c, &cmd) {
		return
	}
	updated, err := h.svc.PatchDoctor(c.Request.Context(), id, &cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, updated)
}

func (h *DoctorHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "doctor-id")
	if !ok {
		return
	}
	if err := h.svc.DeleteDoctor(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}
