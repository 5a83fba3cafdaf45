package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/api/dto"
	"github.com/spec-kit/user-service/internal/api/response"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/service"
	"github.com/spec-kit/user-service/pkg/apperrors"
)

// UsersHandler exposes user endpoints.
type UsersHandler struct {
	users     *service.UserService
	responses *response.Formatter
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, responses *response.Formatter) *UsersHandler {
	return &UsersHandler{users: users, responses: responses}
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid payload", "body must be a JSON object with id and name")
	}

	user, err := h.users.CreateUser(c.UserContext(), req.ID, req.Name)
	if err != nil {
		return err
	}

	return response.Send(c, h.responses.Created(toUserResponse(user), ""))
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return response.Send(c, h.responses.OK(toUserResponse(user), ""))
}

func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
