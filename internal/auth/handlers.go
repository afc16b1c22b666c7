package auth

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ApptChat/AC-Backend/internal/utils"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Handler owns the auth endpoints. DB and settings are injected by main.
type Handler struct {
	DB          *gorm.DB
	Secret      string
	IdentityTTL time.Duration
}

func NewHandler(db *gorm.DB, secret string, identityTTL time.Duration) *Handler {
	return &Handler{DB: db, Secret: secret, IdentityTTL: identityTTL}
}

// ValidateRegistration checks the register payload. Returns "" when valid.
func ValidateRegistration(email, password, firstName, lastName string) string {
	if email == "" || password == "" || firstName == "" || lastName == "" {
		return "Email, password, first name and last name are required"
	}
	if !emailPattern.MatchString(email) {
		return "Invalid email address"
	}
	if len(password) < 6 {
		return "Password must be at least 6 characters"
	}
	return ""
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var user User

	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if msg := ValidateRegistration(user.Email, user.Password, user.FirstName, user.LastName); msg != "" {
		utils.RespondError(w, http.StatusBadRequest, msg)
		return
	}

	// Check if email is taken
	var existing User
	if err := h.DB.First(&existing, "email = ?", user.Email).Error; err == nil {
		utils.RespondError(w, http.StatusConflict, "Email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Server error hashing password")
		return
	}
	user.HashedPassword = string(hashed)
	user.UserID = uuid.New().String()
	user.Password = ""

	if err := h.DB.Create(&user).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user.Public(),
	})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if creds.Email == "" || creds.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	// Unknown email and wrong password answer identically so callers can't
	// probe which emails are registered.
	var user User
	if err := h.DB.First(&user, "email = ?", creds.Email).Error; err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(creds.Password)); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := MakeIdentityToken(user.UserID, user.Email, h.Secret, h.IdentityTTL)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user.Public(),
	})
}

func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var user User
	if err := h.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Couldn't find user")
		return
	}

	utils.RespondJSON(w, http.StatusOK, user.Public())
}
