package service

import (
	"errors"
	"strings"

	"bench_survey_backend/internal/config"
	"bench_survey_backend/internal/model"
	"bench_survey_backend/internal/repository"
	"bench_survey_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	AdminRepo *repository.AdminRepository
	Cfg       *config.Config
}

func NewAuthService(adminRepo *repository.AdminRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		AdminRepo: adminRepo,
		Cfg:       cfg,
	}
}

// Register creates an admin account with a bcrypt-hashed password and an
// allocated secret.
func (s *AuthService) Register(name, password, confirmPassword string, email *string) (*model.Admin, error) {
	if !s.Cfg.AllowRegistration {
		return nil, util.ErrRegistrationClosed
	}
	if password != confirmPassword {
		return nil, util.ErrPasswordsDontMatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.AdminRepo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Login accepts either a username or an email in the login field and returns
// a signed admin token.
func (s *AuthService) Login(login, password string) (string, error) {
	var (
		admin *model.Admin
		err   error
	)
	if strings.Contains(login, "@") {
		admin, err = s.AdminRepo.FindByEmail(login)
	} else {
		admin, err = s.AdminRepo.FindByName(login)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrAccountNotFound
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return "", util.ErrWrongPassword
	}

	return util.GenerateAdminJWT(admin, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetSecret(adminID uint) (string, error) {
	secret, err := s.AdminRepo.GetSecret(adminID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", util.ErrAccountNotFound
	}
	return secret, err
}

func (s *AuthService) RotateSecret(adminID uint) (string, error) {
	secret, err := s.AdminRepo.RotateSecret(adminID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", util.ErrAccountNotFound
	}
	return secret, err
}
