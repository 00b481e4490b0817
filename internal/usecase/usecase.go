package usecase

import "context"

type ListingUC interface {
	ListProducts(ctx context.Context, filter *ListingFilter) (*ProductListRes, error)
	ListMerchants(ctx context.Context, filter *ListingFilter) (*MerchantListRes, error)
	ListCategories(ctx context.Context) ([]CategoryCount, error)
}

type AddressUC interface {
	List(ctx context.Context, userID int64) ([]AddressDTO, error)
	Add(ctx context.Context, userID int64, req *AddAddressReq) (*AddressDTO, error)
	SetDefault(ctx context.Context, userID, addressID int64) error
	Delete(ctx context.Context, userID, addressID int64) error
}

type ProfileUC interface {
	GetProfile(ctx context.Context, userID int64) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileReq) (*ProfileDTO, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error
	ListOrders(ctx context.Context, userID int64) ([]OrderDTO, error)
}
