package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
	"github.com/hcm-suite/hcm-system/internal/core/ports"
)

// PeopleHandler handles HTTP requests for person records.
type PeopleHandler struct {
	service ports.PeopleService
}

func NewPeopleHandler(service ports.PeopleService) *PeopleHandler {
	return &PeopleHandler{service: service}
}

// List handles GET /api/people.
//
// @Summary      List all people
// @Tags         people
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   personResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/people [get]
func (h *PeopleHandler) List(c echo.Context) error {
	people, err := h.service.ListPeople(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]personResponse, 0, len(people))
	for _, p := range people {
		resp = append(resp, toPersonResponse(p))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/people/:id.
//
// @Summary      Get a person by id
// @Tags         people
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Person id"
// @Success      200  {object}  personResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/people/{id} [get]
func (h *PeopleHandler) Get(c echo.Context) error {
	person, err := h.service.GetPerson(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrPersonNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "person not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, toPersonResponse(person))
}

// Create handles POST /api/people. The companion credential is created
// on the auth service before the response is sent; a companion failure
// surfaces as 502 with the failure reason.
//
// @Summary      Create a person
// @Tags         people
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPersonRequest  true  "Person details"
// @Success      201   {object}  createPersonResponse
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/people [post]
func (h *PeopleHandler) Create(c echo.Context) error {
	var req createPersonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	id, res := h.service.CreatePerson(c.Request().Context(), ports.CreatePersonInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      role,
		HireDate:  req.HireDate,
	})
	if !res.OK {
		return c.JSON(http.StatusBadGateway, errorResponse{Error: res.Reason})
	}

	return c.JSON(http.StatusCreated, createPersonResponse{ID: id})
}

// Update handles PUT /api/people/:id.
//
// @Summary      Update a person
// @Tags         people
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Person id"
// @Param        body  body      updatePersonRequest  true  "New field values"
// @Success      204   "updated"
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/people/{id} [put]
func (h *PeopleHandler) Update(c echo.Context) error {
	var req updatePersonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	res := h.service.UpdatePerson(c.Request().Context(), c.Param("id"), ports.UpdatePersonInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      role,
	})
	if !res.OK {
		if res.Kind == domain.FailureNotFound {
			return c.JSON(http.StatusNotFound, errorResponse{Error: res.Reason})
		}
		return c.JSON(http.StatusBadGateway, errorResponse{Error: res.Reason})
	}

	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/people/:id. The companion credential is
// removed first; if that fails the person record is left untouched.
//
// @Summary      Delete a person
// @Tags         people
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Person id"
// @Success      204  "deleted"
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/people/{id} [delete]
func (h *PeopleHandler) Delete(c echo.Context) error {
	res := h.service.DeletePerson(c.Request().Context(), c.Param("id"))
	if !res.OK {
		if res.Kind == domain.FailureNotFound {
			return c.JSON(http.StatusNotFound, errorResponse{Error: res.Reason})
		}
		return c.JSON(http.StatusBadGateway, errorResponse{Error: res.Reason})
	}
	return c.NoContent(http.StatusNoContent)
}

func toPersonResponse(p *domain.Person) personResponse {
	return personResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      p.Role.String(),
		HireDate:  p.HireDate,
		CreatedAt: p.CreatedAt,
	}
}
