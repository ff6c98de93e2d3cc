package postgres

import (
	"time"

	"github.com/frahmantamala/leave-management/internal/balance"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// BalanceRepository implements balance.UserRepository using GORM.
type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) balance.UserRepository {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *BalanceRepository) GetStale(year int) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Where("leave_year < ?", year).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// ApplyYearlyReset writes the new-year balance as a conditional set. The
// leave_year guard makes concurrent resets collapse to a single winner; the
// losers see applied=false and reload.
func (r *BalanceRepository) ApplyYearlyReset(userID int64, year, newBalance, carryOver int) (bool, error) {
	res := r.db.Model(&userDatamodel.User{}).
		Where("id = ? AND leave_year < ?", userID, year).
		Updates(map[string]interface{}{
			"leave_balance":      newBalance,
			"carry_over_balance": carryOver,
			"leave_year":         year,
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
