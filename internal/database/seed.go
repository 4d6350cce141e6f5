package database

import (
	"errors"

	"urlaubsplanner/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	username string
	fullName string
	role     model.Role
	region   string // empty means no region assignment
}

// SeedDemoData inserts demo regions and accounts. Existing rows are
// left untouched, so the seeder is safe to run on every startup.
func SeedDemoData(db *gorm.DB) error {
	regions := []model.Region{
		{Name: "Dortmund", City: "Dortmund", Country: "Deutschland", Active: true},
		{Name: "München", City: "München", Country: "Deutschland", Active: true},
		{Name: "Hamburg", City: "Hamburg", Country: "Deutschland", Active: true},
	}

	regionIDs := make(map[string]*model.Region, len(regions))
	for i := range regions {
		region := &regions[i]
		var existing model.Region
		err := db.Where("name = ?", region.Name).First(&existing).Error
		switch {
		case err == nil:
			regionIDs[region.Name] = &existing
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		if err := db.Create(region).Error; err != nil {
			return err
		}
		regionIDs[region.Name] = region
		logrus.WithField("region", region.Name).Info("seeded region")
	}

	users := []seedUser{
		{username: "admin", fullName: "System Administrator", role: model.RoleSuperManager},
		{username: "manager.dortmund", fullName: "Petra Schulz", role: model.RoleManager, region: "Dortmund"},
		{username: "manager.muenchen", fullName: "Stefan Bauer", role: model.RoleManager, region: "München"},
		{username: "manager.hamburg", fullName: "Julia Krause", role: model.RoleManager, region: "Hamburg"},
		{username: "max.mustermann", fullName: "Max Mustermann", role: model.RoleEmployee, region: "Dortmund"},
		{username: "erika.musterfrau", fullName: "Erika Musterfrau", role: model.RoleEmployee, region: "Dortmund"},
		{username: "hans.meier", fullName: "Hans Meier", role: model.RoleEmployee, region: "München"},
		{username: "anna.schmidt", fullName: "Anna Schmidt", role: model.RoleEmployee, region: "Hamburg"},
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, seed := range users {
		var count int64
		if err := db.Model(&model.User{}).Where("username = ?", seed.username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		user := model.User{
			Username:          seed.username,
			Password:          string(hashed),
			FullName:          seed.fullName,
			Role:              seed.role,
			TotalVacationDays: 30,
			Active:            true,
		}
		if seed.region != "" {
			region := regionIDs[seed.region]
			user.RegionID = &region.ID
		}

		if err := db.Create(&user).Error; err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"username": seed.username,
			"role":     seed.role,
		}).Info("seeded user")
	}

	return nil
}
