package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type contactInput struct {
	Name    string `json:"name" binding:"required,max=64"`
	Address string `json:"address" binding:"required,evmaddr"`
}

func (h *Handler) ListContacts(c *gin.Context) {
	contacts, err := h.service.Contacts.List(c.Request.Context(), callerAddress(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"contacts": contacts,
	})
}

func (h *Handler) AddContact(c *gin.Context) {
	var input contactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	contact, err := h.service.Contacts.Add(c.Request.Context(), callerAddress(c), input.Name, input.Address)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, map[string]interface{}{
		"contact": contact,
	})
}

func (h *Handler) DeleteContact(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.Contacts.Delete(c.Request.Context(), callerAddress(c), id); err != nil {
		errorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
