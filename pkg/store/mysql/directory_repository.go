package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"servicedesk/pkg/store/mysql/model"
)

// DirectoryRepository reads the user and department directories.
type DirectoryRepository struct {
	ds *Datastore
}

// NewDirectoryRepository creates a new directory repository
func NewDirectoryRepository(ds *Datastore) *DirectoryRepository {
	return &DirectoryRepository{ds: ds}
}

// GetDepartment retrieves a department by ID; nil when not found.
func (r *DirectoryRepository) GetDepartment(ctx context.Context, departmentID string) (*model.Department, error) {
	var dept model.Department
	err := r.ds.DB(ctx).Where("department_id = ?", departmentID).First(&dept).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &dept, nil
}

// ListDepartments retrieves all departments.
func (r *DirectoryRepository) ListDepartments(ctx context.Context) ([]*model.Department, error) {
	var depts []*model.Department
	if err := r.ds.DB(ctx).Order("department_id ASC").Find(&depts).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}

// GetUser retrieves a user by ID; nil when not found.
func (r *DirectoryRepository) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.ds.DB(ctx).Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ListUsersInDepartment retrieves all users belonging to a department.
func (r *DirectoryRepository) ListUsersInDepartment(ctx context.Context, departmentID string) ([]*model.User, error) {
	var users []*model.User
	err := r.ds.DB(ctx).
		Where("department_id = ?", departmentID).
		Order("user_id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users in department: %w", err)
	}
	return users, nil
}
