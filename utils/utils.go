package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"freight-forward/database"
	"freight-forward/models/user"
	"freight-forward/types"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var validate = validator.New()

// ValidateStruct runs the validator tags on a request struct and returns a
// single message listing every violated field.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var invalidErr *validator.InvalidValidationError
		if errors.As(err, &invalidErr) {
			return err
		}

		var messages []string
		for _, fieldErr := range err.(validator.ValidationErrors) {
			messages = append(messages, fmt.Sprintf("%s failed on the '%s' rule", fieldErr.Field(), fieldErr.Tag()))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return nil
}

// GetUserByUUID looks a user up by its uuid claim.
func GetUserByUUID(uuid string) (*user.User, error) {
	if uuid == "" {
		return nil, errors.New("UUID cannot be empty")
	}

	var userModel user.User
	if err := database.DB.Where("uuid = ?", uuid).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &userModel, nil
}

// CurrentUsername extracts the username claim set by the auth middleware.
// Falls back to "system" so audit columns are never empty.
func CurrentUsername(c *fiber.Ctx) string {
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return "system"
	}
	if username, ok := claims["username"].(string); ok && username != "" {
		return username
	}
	return "system"
}

// GenerateToken issues an HS256 JWT for the given user.
func GenerateToken(u *user.User, expiration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"uuid":        u.Uuid,
		"username":    u.Username,
		"permissions": []string(u.Permissions),
		"exp":         time.Now().Add(expiration).Unix(),
		"iat":         time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// PaginationParams are the normalized list query parameters.
type PaginationParams struct {
	Page      int
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
	Search    string
}

// ParsePagination reads page/limit/sortBy/sortOrder/search from the query,
// clamping them to sane values. allowedSortFields guards against ordering by
// arbitrary column names.
func ParsePagination(c *fiber.Ctx, defaultSort string, allowedSortFields ...string) PaginationParams {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	sortBy := c.Query("sortBy", c.Query("sortField", defaultSort))
	allowed := false
	for _, f := range allowedSortFields {
		if sortBy == f {
			allowed = true
			break
		}
	}
	if !allowed {
		sortBy = defaultSort
	}

	sortOrder := strings.ToLower(c.Query("sortOrder", "desc"))
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return PaginationParams{
		Page:      page,
		Limit:     limit,
		Offset:    (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Search:    c.Query("search"),
	}
}

// OrderClause renders the pagination sort as a gorm order expression.
func (p PaginationParams) OrderClause() string {
	return p.SortBy + " " + p.SortOrder
}

// CreateSanitizedLogEntry builds a log entry from the request/response pair.
// All data is deep-copied so fasthttp buffer reuse cannot corrupt entries
// sitting in the async logger channel.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBody := sanitizeRequestBody(c)
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          method,
		URL:             url,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}

// sanitizeRequestBody masks credential fields before a body is logged.
func sanitizeRequestBody(c *fiber.Ctx) string {
	body := string(append([]byte(nil), c.Body()...))
	if body == "" {
		return body
	}

	for _, field := range []string{"password", "token", "secret"} {
		if strings.Contains(body, field) {
			return fmt.Sprintf(`{"sanitized":"request body contains %s, not logged"}`, field)
		}
	}
	return body
}
