package service

import (
	"context"
	"fmt"
	"time"

	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a plaintext credential into its stored form.
// Opaque to the rest of the system; tests swap in a cheap fake.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// BcryptHasher is the production hasher.
type BcryptHasher struct{}

func (BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// --- DTOs ---

type CreateUserDTO struct {
	Username          string `json:"username" binding:"required"`
	Password          string `json:"password" binding:"required,min=6"`
	FullName          string `json:"full_name" binding:"required"`
	Role              string `json:"role" binding:"required,oneof=EMPLOYEE MANAGER SUPER_MANAGER"`
	TotalVacationDays int    `json:"total_vacation_days"`
	UsedVacationDays  int    `json:"used_vacation_days"`
	Active            *bool  `json:"active"`
	RegionID          string `json:"region_id"`
}

type UpdateUserDTO struct {
	FullName          string `json:"full_name"`
	Role              string `json:"role" binding:"omitempty,oneof=EMPLOYEE MANAGER SUPER_MANAGER"`
	TotalVacationDays *int   `json:"total_vacation_days"`
	UsedVacationDays  *int   `json:"used_vacation_days"`
	Active            *bool  `json:"active"`
	RegionID          string `json:"region_id"`
	Password          string `json:"password"` // rehashed only when non-empty
}

type UserResponse struct {
	ID                    string `json:"id"`
	Username              string `json:"username"`
	FullName              string `json:"full_name"`
	Role                  string `json:"role"`
	TotalVacationDays     int    `json:"total_vacation_days"`
	UsedVacationDays      int    `json:"used_vacation_days"`
	RemainingVacationDays int    `json:"remaining_vacation_days"`
	Active                bool   `json:"active"`
	RegionID              string `json:"region_id,omitempty"`
	RegionName            string `json:"region_name,omitempty"`
	CreatedAt             string `json:"created_at"`
}

type SystemStatistics struct {
	TotalUsers              int64            `json:"total_users"`
	TotalEmployees          int64            `json:"total_employees"`
	TotalManagers           int64            `json:"total_managers"`
	TotalRequests           int64            `json:"total_requests"`
	PendingRequests         int64            `json:"pending_requests"`
	ApprovedRequests        int64            `json:"approved_requests"`
	RejectedRequests        int64            `json:"rejected_requests"`
	AverageVacationDaysUsed float64          `json:"average_vacation_days_used"`
	RequestsByAbsenceType   map[string]int64 `json:"requests_by_absence_type"`
	RequestsByMonth         map[string]int64 `json:"requests_by_month"`
}

type VacationUsage struct {
	FullName        string  `json:"full_name"`
	TotalDays       int     `json:"total_days"`
	UsedDays        int     `json:"used_days"`
	RemainingDays   int     `json:"remaining_days"`
	UsagePercentage float64 `json:"usage_percentage"`
}

// --- Interface ---

// AdminService owns user lifecycle and system-wide statistics.
type AdminService interface {
	ListUsers(ctx context.Context) ([]UserResponse, error)
	GetUser(ctx context.Context, id string) (UserResponse, error)
	CreateUser(ctx context.Context, dto CreateUserDTO, createdBy string) (UserResponse, error)
	UpdateUser(ctx context.Context, id string, dto UpdateUserDTO, updatedBy string) (UserResponse, error)
	DeactivateUser(ctx context.Context, id, deactivatedBy string) error
	DeleteUser(ctx context.Context, id, deletedBy string) error
	UpdateVacationQuota(ctx context.Context, id string, totalDays int, updatedBy string) (UserResponse, error)
	SystemStatistics(ctx context.Context) (SystemStatistics, error)
	VacationUsageReport(ctx context.Context) (map[string]VacationUsage, error)
}

type adminService struct {
	users     repository.UserRepository
	regions   repository.RegionRepository
	vacations repository.VacationRepository
	audits    repository.AuditRepository
	txm       repository.TransactionManager
	hasher    PasswordHasher
	now       func() time.Time
}

func NewAdminService(
	users repository.UserRepository,
	regions repository.RegionRepository,
	vacations repository.VacationRepository,
	audits repository.AuditRepository,
	txm repository.TransactionManager,
	hasher PasswordHasher,
	now func() time.Time,
) AdminService {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	if now == nil {
		now = time.Now
	}
	return &adminService{
		users:     users,
		regions:   regions,
		vacations: vacations,
		audits:    audits,
		txm:       txm,
		hasher:    hasher,
		now:       now,
	}
}

// --- Implementation ---

func (s *adminService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

func (s *adminService) GetUser(ctx context.Context, id string) (UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *adminService) getUser(ctx context.Context, id string) (*model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationf("invalid user id %q", id)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("user", id)
		}
		return nil, err
	}
	return user, nil
}

func (s *adminService) resolveRegion(ctx context.Context, regionID string) (*model.Region, error) {
	id, err := uuid.Parse(regionID)
	if err != nil {
		return nil, validationf("invalid region id %q", regionID)
	}
	region, err := s.regions.GetByID(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("region", regionID)
		}
		return nil, err
	}
	return region, nil
}

func (s *adminService) CreateUser(ctx context.Context, dto CreateUserDTO, createdBy string) (UserResponse, error) {
	role := model.Role(dto.Role)
	if !role.Valid() {
		return UserResponse{}, validationf("unknown role %q", dto.Role)
	}
	if dto.TotalVacationDays < 0 || dto.UsedVacationDays < 0 {
		return UserResponse{}, validationf("vacation day counts must not be negative")
	}

	hashed, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Username:          dto.Username,
		Password:          hashed,
		FullName:          dto.FullName,
		Role:              role,
		TotalVacationDays: dto.TotalVacationDays,
		UsedVacationDays:  dto.UsedVacationDays,
		Active:            true,
	}
	if dto.Active != nil {
		user.Active = *dto.Active
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		taken, err := s.users.ExistsByUsername(txCtx, dto.Username)
		if err != nil {
			return err
		}
		if taken {
			return conflictf("username already exists: %s", dto.Username)
		}

		regionInfo := ""
		if dto.RegionID != "" {
			region, err := s.resolveRegion(txCtx, dto.RegionID)
			if err != nil {
				return err
			}
			user.RegionID = &region.ID
			user.Region = region
			regionInfo = " in region " + region.Name
		}

		if err := s.users.Create(txCtx, &user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		return s.audits.Create(txCtx, &model.AuditLog{
			Action:      model.ActionCreateUser,
			PerformedBy: createdBy,
			TargetUser:  user.Username,
			Details:     fmt.Sprintf("Created new user: %s (Role: %s)%s", user.Username, user.Role, regionInfo),
			IPAddress:   clientIP(ctx),
			Timestamp:   s.now(),
		})
	})
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(&user), nil
}

func (s *adminService) UpdateUser(ctx context.Context, id string, dto UpdateUserDTO, updatedBy string) (UserResponse, error) {
	var user *model.User
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.getUser(txCtx, id)
		if err != nil {
			return err
		}

		if dto.FullName != "" {
			user.FullName = dto.FullName
		}
		if dto.Role != "" {
			role := model.Role(dto.Role)
			if !role.Valid() {
				return validationf("unknown role %q", dto.Role)
			}
			user.Role = role
		}
		// Quota and used days are direct admin overrides; no
		// cross-validation between them at this point.
		if dto.TotalVacationDays != nil {
			user.TotalVacationDays = *dto.TotalVacationDays
		}
		if dto.UsedVacationDays != nil {
			user.UsedVacationDays = *dto.UsedVacationDays
		}
		if dto.Active != nil {
			user.Active = *dto.Active
		}

		regionInfo := ""
		if dto.RegionID != "" {
			region, err := s.resolveRegion(txCtx, dto.RegionID)
			if err != nil {
				return err
			}
			user.RegionID = &region.ID
			user.Region = region
			regionInfo = " in region " + region.Name
		}

		if dto.Password != "" {
			hashed, err := s.hasher.Hash(dto.Password)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user.Password = hashed
		}

		if err := s.users.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		return s.audits.Create(txCtx, &model.AuditLog{
			Action:      model.ActionUpdateUser,
			PerformedBy: updatedBy,
			TargetUser:  user.Username,
			Details:     fmt.Sprintf("Updated user: %s (Role: %s)%s", user.Username, user.Role, regionInfo),
			IPAddress:   clientIP(ctx),
			Timestamp:   s.now(),
		})
	})
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *adminService) DeactivateUser(ctx context.Context, id, deactivatedBy string) error {
	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.getUser(txCtx, id)
		if err != nil {
			return err
		}
		if user.Role == model.RoleSuperManager {
			return statef("cannot deactivate Super Manager")
		}

		user.Active = false
		if err := s.users.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to deactivate user: %w", err)
		}

		return s.audits.Create(txCtx, &model.AuditLog{
			Action:      model.ActionDeactivateUser,
			PerformedBy: deactivatedBy,
			TargetUser:  user.Username,
			Details:     fmt.Sprintf("Deactivated user: %s", user.Username),
			IPAddress:   clientIP(ctx),
			Timestamp:   s.now(),
		})
	})
}

func (s *adminService) DeleteUser(ctx context.Context, id, deletedBy string) error {
	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.getUser(txCtx, id)
		if err != nil {
			return err
		}
		if user.Role == model.RoleSuperManager {
			return statef("cannot delete Super Manager")
		}

		if err := s.users.Delete(txCtx, user); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		return s.audits.Create(txCtx, &model.AuditLog{
			Action:      model.ActionDeleteUser,
			PerformedBy: deletedBy,
			TargetUser:  user.Username,
			Details:     fmt.Sprintf("Deleted user: %s", user.Username),
			IPAddress:   clientIP(ctx),
			Timestamp:   s.now(),
		})
	})
}

func (s *adminService) UpdateVacationQuota(ctx context.Context, id string, totalDays int, updatedBy string) (UserResponse, error) {
	if totalDays < 0 {
		return UserResponse{}, validationf("vacation quota must not be negative")
	}

	var user *model.User
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.getUser(txCtx, id)
		if err != nil {
			return err
		}

		oldQuota := user.TotalVacationDays
		user.TotalVacationDays = totalDays
		if err := s.users.Update(txCtx, user); err != nil {
			return fmt.Errorf("failed to update quota: %w", err)
		}

		return s.audits.Create(txCtx, &model.AuditLog{
			Action:      model.ActionUpdateQuota,
			PerformedBy: updatedBy,
			TargetUser:  user.Username,
			Details:     fmt.Sprintf("Updated vacation quota for %s: %d → %d days", user.Username, oldQuota, totalDays),
			IPAddress:   clientIP(ctx),
			Timestamp:   s.now(),
		})
	})
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *adminService) SystemStatistics(ctx context.Context) (SystemStatistics, error) {
	stats := SystemStatistics{
		RequestsByAbsenceType: make(map[string]int64),
		RequestsByMonth:       make(map[string]int64),
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return SystemStatistics{}, err
	}
	stats.TotalUsers = int64(len(users))

	var usedSum int64
	for i := range users {
		switch users[i].Role {
		case model.RoleEmployee:
			stats.TotalEmployees++
		case model.RoleManager:
			stats.TotalManagers++
		}
		usedSum += int64(users[i].UsedVacationDays)
	}
	if len(users) > 0 {
		avg := decimal.NewFromInt(usedSum).Div(decimal.NewFromInt(int64(len(users))))
		stats.AverageVacationDaysUsed = avg.Round(2).InexactFloat64()
	}

	requests, err := s.vacations.ListAll(ctx)
	if err != nil {
		return SystemStatistics{}, err
	}
	stats.TotalRequests = int64(len(requests))
	for i := range requests {
		req := &requests[i]
		switch req.Status {
		case model.StatusPending:
			stats.PendingRequests++
		case model.StatusApproved:
			stats.ApprovedRequests++
		case model.StatusRejected:
			stats.RejectedRequests++
		}
		stats.RequestsByAbsenceType[req.AbsenceType.DisplayName()]++
		stats.RequestsByMonth[req.CreatedAt.Month().String()]++
	}

	return stats, nil
}

func (s *adminService) VacationUsageReport(ctx context.Context) (map[string]VacationUsage, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	report := make(map[string]VacationUsage)
	for i := range users {
		user := &users[i]
		if user.Role != model.RoleEmployee {
			continue
		}
		usage := VacationUsage{
			FullName:      user.FullName,
			TotalDays:     user.TotalVacationDays,
			UsedDays:      user.UsedVacationDays,
			RemainingDays: user.RemainingVacationDays(),
		}
		if user.TotalVacationDays > 0 {
			usage.UsagePercentage = float64(user.UsedVacationDays) * 100.0 / float64(user.TotalVacationDays)
		}
		report[user.Username] = usage
	}
	return report, nil
}

// --- Helpers ---

func toUserResponse(user *model.User) UserResponse {
	resp := UserResponse{
		ID:                    user.ID.String(),
		Username:              user.Username,
		FullName:              user.FullName,
		Role:                  string(user.Role),
		TotalVacationDays:     user.TotalVacationDays,
		UsedVacationDays:      user.UsedVacationDays,
		RemainingVacationDays: user.RemainingVacationDays(),
		Active:                user.Active,
		CreatedAt:             user.CreatedAt.Format(time.RFC3339),
	}
	if user.RegionID != nil {
		resp.RegionID = user.RegionID.String()
	}
	if user.Region != nil {
		resp.RegionName = user.Region.Name
	}
	return resp
}

func toUserResponses(users []model.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result
}
