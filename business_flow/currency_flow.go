package businessflow

import (
	"context"

	"github.com/pitline/pitline/app/dto"
	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/repository"
	"gorm.io/gorm"
)

// CurrencyFlow handles the workshop's currency list and exchange rates.
// Rate changes only affect future invoices; issued invoices keep the rate
// they snapshotted.
type CurrencyFlow interface {
	CreateCurrency(ctx context.Context, request *dto.CreateCurrencyRequest, metadata *ClientMetadata) (*dto.CurrencyDTO, error)
	UpdateCurrency(ctx context.Context, request *dto.UpdateCurrencyRequest, metadata *ClientMetadata) (*dto.CurrencyDTO, error)
	ListCurrencies(ctx context.Context, workshopID uint) (*dto.ListCurrenciesResponse, error)
}

// CurrencyFlowImpl implements the currency business flow
type CurrencyFlowImpl struct {
	currencyRepo repository.CurrencyRepository
	db           *gorm.DB
}

// NewCurrencyFlow creates a new currency flow instance
func NewCurrencyFlow(currencyRepo repository.CurrencyRepository, db *gorm.DB) CurrencyFlow {
	return &CurrencyFlowImpl{
		currencyRepo: currencyRepo,
		db:           db,
	}
}

// CreateCurrency adds a currency to the workshop's list
func (cf *CurrencyFlowImpl) CreateCurrency(ctx context.Context, request *dto.CreateCurrencyRequest, metadata *ClientMetadata) (*dto.CurrencyDTO, error) {
	var currency *models.Currency

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		existing, err := cf.currencyRepo.ByCode(ctx, request.WorkshopID, request.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrCurrencyCodeExists
		}

		currency = &models.Currency{
			WorkshopID:   request.WorkshopID,
			Code:         request.Code,
			Name:         request.Name,
			Symbol:       request.Symbol,
			ExchangeRate: request.ExchangeRate,
		}

		return cf.currencyRepo.Save(ctx, currency)
	})

	if err != nil {
		return nil, NewBusinessError("CURRENCY_CREATE_FAILED", "Currency creation failed", err)
	}

	result := ToCurrencyDTO(*currency)
	return &result, nil
}

// UpdateCurrency changes a currency's rate, name or status
func (cf *CurrencyFlowImpl) UpdateCurrency(ctx context.Context, request *dto.UpdateCurrencyRequest, metadata *ClientMetadata) (*dto.CurrencyDTO, error) {
	var updated *models.Currency

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		currency, err := cf.currencyRepo.ByCode(ctx, request.WorkshopID, request.Code)
		if err != nil {
			return err
		}
		if currency == nil {
			return ErrCurrencyNotFound
		}

		if request.Name != nil {
			currency.Name = *request.Name
		}
		if request.Symbol != nil {
			currency.Symbol = request.Symbol
		}
		if request.ExchangeRate != nil {
			currency.ExchangeRate = *request.ExchangeRate
		}
		if request.IsActive != nil {
			currency.IsActive = request.IsActive
		}

		if err := cf.currencyRepo.Update(ctx, *currency); err != nil {
			return err
		}

		updated = currency
		return nil
	})

	if err != nil {
		return nil, NewBusinessError("CURRENCY_UPDATE_FAILED", "Currency update failed", err)
	}

	result := ToCurrencyDTO(*updated)
	return &result, nil
}

// ListCurrencies returns every currency the workshop has configured
func (cf *CurrencyFlowImpl) ListCurrencies(ctx context.Context, workshopID uint) (*dto.ListCurrenciesResponse, error) {
	currencies, err := cf.currencyRepo.ListByWorkshop(ctx, workshopID)
	if err != nil {
		return nil, NewBusinessError("CURRENCY_LIST_FAILED", "Currency listing failed", err)
	}

	items := make([]dto.CurrencyDTO, 0, len(currencies))
	for _, c := range currencies {
		items = append(items, ToCurrencyDTO(*c))
	}

	return &dto.ListCurrenciesResponse{Items: items}, nil
}
