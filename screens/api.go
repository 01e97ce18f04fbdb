package screens

import (
	"context"
	"errors"

	"github.com/meinhoongagan/marketplace/client"
	"github.com/meinhoongagan/marketplace/models"
)

// API is the slice of the marketplace client the screens use.
type API interface {
	Login(ctx context.Context, identifier, password string) (*client.LoginResult, error)
	ProviderOrders(ctx context.Context, providerID uint) ([]models.OrderView, error)
	UserOrders(ctx context.Context, userID uint) ([]models.OrderView, error)
	ProviderReviews(ctx context.Context, providerID uint) ([]models.ReviewView, error)
	Profile(ctx context.Context, userID uint) (*models.ProviderListing, error)
	Provider(ctx context.Context, id uint) (*models.ProviderListing, error)
	CreateOrder(ctx context.Context, order models.ServiceOrder) (*models.ServiceOrder, error)
	UpdateOrder(ctx context.Context, id uint, fields map[string]interface{}) (*models.ServiceOrder, error)
	CreateReview(ctx context.Context, review models.Review) (*models.Review, error)
	UploadPhoto(ctx context.Context, filename string, content []byte) (string, error)
	Patch(ctx context.Context, endpoint string, body, out interface{}) error
	AdminProviders(ctx context.Context) ([]models.ProviderListing, error)
	SetProviderStatus(ctx context.Context, providerID uint, status models.ProfileStatus) error
}

var _ API = (*client.Client)(nil)

var (
	ErrNotSignedIn    = errors.New("sign in to continue")
	ErrWrongRole      = errors.New("this screen is not available for your account")
	ErrActionDisabled = errors.New("action not available for this order")
	ErrOrderNotFound  = errors.New("order not found")
)
