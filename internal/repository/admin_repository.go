package repository

import (
	"bench_survey_backend/internal/model"
	"bench_survey_backend/internal/util"
	"bench_survey_backend/pkg/database"

	"gorm.io/gorm"
)

const adminSecretLength = 32

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

// Create persists a new admin, allocating its unique secret. Name and email
// collisions are not retryable and surface as typed errors.
func (r *AdminRepository) Create(admin *model.Admin) error {
	_, err := Allocate(
		func() string { return util.RandomString(adminSecretLength) },
		func(secret string) error {
			admin.Secret = secret
			err := r.DB.Create(admin).Error
			if uv, ok := database.AsUniqueViolation(err); ok {
				switch {
				case uv.On("survey_admins", "name"):
					return util.ErrNameTaken
				case uv.On("survey_admins", "email"):
					return util.ErrEmailTaken
				}
			}
			return err
		},
	)
	return err
}

func (r *AdminRepository) FindByID(id uint) (*model.Admin, error) {
	var admin model.Admin
	err := r.DB.First(&admin, id).Error
	return &admin, err
}

func (r *AdminRepository) FindByName(name string) (*model.Admin, error) {
	var admin model.Admin
	err := r.DB.Where("name = ?", name).First(&admin).Error
	return &admin, err
}

func (r *AdminRepository) FindByEmail(email string) (*model.Admin, error) {
	var admin model.Admin
	err := r.DB.Where("email = ?", email).First(&admin).Error
	return &admin, err
}

func (r *AdminRepository) GetSecret(id uint) (string, error) {
	var admin model.Admin
	err := r.DB.Select("secret").First(&admin, id).Error
	return admin.Secret, err
}

// RotateSecret replaces the admin's secret with a freshly allocated one.
func (r *AdminRepository) RotateSecret(id uint) (string, error) {
	return Allocate(
		func() string { return util.RandomString(adminSecretLength) },
		func(secret string) error {
			res := r.DB.Model(&model.Admin{}).Where("id = ?", id).Update("secret", secret)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		},
	)
}
