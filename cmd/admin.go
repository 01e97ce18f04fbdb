package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var adminFlags struct {
	name     string
	email    string
	phone    string
	password string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create or promote an administrator account",
	Long: `Create an administrator account, or promote the existing account that
owns --email. Administrators cannot register through the API.`,
	RunE: runCreateAdmin,
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.name, "name", "Administrator", "display name")
	f.StringVar(&adminFlags.email, "email", "", "login e-mail (required)")
	f.StringVar(&adminFlags.phone, "phone", "", "phone number, required for new accounts")
	f.StringVar(&adminFlags.password, "password", "", "password, required for new accounts")
	_ = createAdminCmd.MarkFlagRequired("email")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	if _, err := bootstrap(); err != nil {
		return err
	}
	if err := db.Migrate(); err != nil {
		return err
	}

	user, created, err := ensureAdmin(db.DB, adminFlags.name, adminFlags.email, adminFlags.phone, adminFlags.password)
	if err != nil {
		return err
	}
	logger.L().Info("administrator ready",
		zap.Uint("id", user.ID),
		zap.String("email", user.Email),
		zap.Bool("created", created))
	fmt.Fprintf(cmd.OutOrStdout(), "administrator %s (id %d) ready\n", user.Email, user.ID)
	return nil
}

// ensureAdmin promotes the account owning email, or creates it.
func ensureAdmin(conn *gorm.DB, name, email, phone, password string) (*models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, errors.New("email is required")
	}

	var user models.User
	err := conn.Where("LOWER(email) = ?", email).First(&user).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{"is_admin": true}
		if password != "" {
			hashed, err := utils.HashPassword(password)
			if err != nil {
				return nil, false, err
			}
			updates["password"] = hashed
		}
		if err := conn.Model(&user).Updates(updates).Error; err != nil {
			return nil, false, err
		}
		return &user, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, err
	}

	if strings.TrimSpace(phone) == "" || password == "" {
		return nil, false, errors.New("phone and password are required for a new administrator")
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	user = models.User{
		Name:        strings.TrimSpace(name),
		Email:       email,
		Phone:       strings.TrimSpace(phone),
		Password:    hashed,
		AccountType: models.AccountAdmin,
		IsAdmin:     true,
	}
	if err := conn.Create(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, true, nil
}
