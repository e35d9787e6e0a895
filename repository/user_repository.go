package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cinescore/cinescorebackend/models"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Groups").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Groups").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists the user's fields. When Groups is set it fully replaces the
// membership set, dropping memberships absent from the new slice.
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if user.Groups != nil {
			if err := tx.Model(user).Association("Groups").Replace(user.Groups); err != nil {
				return err
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(user).Error
	})
}

// Delete removes the user and their group memberships. The user's reviews are
// expected to have been purged (and affected movie averages recomputed)
// beforehand by the review service.
func (r *GormUserRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserGroup{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

func (r *GormUserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Groups").Find(&users).Error
	return users, err
}

func (r *GormUserRepository) AddGroupToUser(userID uint, groupID uint) error {
	userGroup := models.UserGroup{UserID: userID, GroupID: groupID}
	// avoid error if membership already exists
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&userGroup).Error
}

func (r *GormUserRepository) RemoveGroupFromUser(userID uint, groupID uint) error {
	return r.db.Where("user_id = ? AND group_id = ?", userID, groupID).Delete(&models.UserGroup{}).Error
}

func (r *GormUserRepository) GetUserGroups(userID uint) ([]models.Group, error) {
	var user models.User
	if err := r.db.Preload("Groups").First(&user, userID).Error; err != nil {
		return nil, err
	}

	var groups []models.Group
	for _, gPtr := range user.Groups {
		if gPtr != nil {
			groups = append(groups, *gPtr)
		}
	}
	return groups, nil
}

func (r *GormUserRepository) SetUserGlobalPermissions(userID uint, permissions []string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("global_permissions", permissions).Error
}
