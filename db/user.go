package db

import "gorm.io/gorm"

// 用户表由外部计费系统写入，这里只提供读取与上报回写
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(user *User) error {
	return r.db.Create(user).Error
}

func (r *UserRepo) GetByID(id uint) (*User, error) {
	var user User
	result := r.db.First(&user, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// ListByMinLevel 等级达到节点门槛的全部用户
func (r *UserRepo) ListByMinLevel(level uint) ([]User, error) {
	var users []User
	result := r.db.Where("level >= ?", level).Order("id").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (r *UserRepo) List(page, pageSize int) ([]User, int64, error) {
	var users []User
	var total int64

	r.db.Model(&User{}).Count(&total)

	offset := (page - 1) * pageSize
	result := r.db.Offset(offset).Limit(pageSize).Find(&users)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return users, total, nil
}

// AddTraffic 上报同步外部账户累计值，累加不覆盖
func (r *UserRepo) AddTraffic(id uint, upload, download int64) error {
	return r.db.Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"upload_traffic":   gorm.Expr("upload_traffic + ?", upload),
		"download_traffic": gorm.Expr("download_traffic + ?", download),
	}).Error
}
