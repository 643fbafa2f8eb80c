package indexpool

import (
	"context"

	"indexpool-go/internal/models"
	"indexpool-go/internal/store"

	"github.com/ethereum/go-ethereum/common"
)

// BalanceOf returns how many portfolios owner holds.
func (r *Registry) BalanceOf(ctx context.Context, owner common.Address) (uint64, error) {
	var count uint64
	err := r.store.View(ctx, func(uow store.UnitOfWork) error {
		var err error
		count, err = uow.CountPortfolios(ctx, owner)
		return err
	})
	return count, err
}

func (r *Registry) OwnerOf(ctx context.Context, tokenId uint64) (common.Address, error) {
	portfolio, err := r.Portfolio(ctx, tokenId)
	if err != nil {
		return common.Address{}, err
	}
	return portfolio.Owner, nil
}

func (r *Registry) Portfolio(ctx context.Context, tokenId uint64) (*models.Portfolio, error) {
	var portfolio *models.Portfolio
	err := r.store.View(ctx, func(uow store.UnitOfWork) error {
		var err error
		portfolio, err = uow.GetPortfolio(ctx, tokenId)
		return err
	})
	return portfolio, err
}

// Portfolios lists the portfolios held by owner, or every portfolio for the zero address.
func (r *Registry) Portfolios(ctx context.Context, owner common.Address) ([]models.Portfolio, error) {
	var portfolios []models.Portfolio
	err := r.store.View(ctx, func(uow store.UnitOfWork) error {
		var err error
		portfolios, err = uow.ListPortfolios(ctx, owner)
		return err
	})
	return portfolios, err
}

// Holdings returns the non-zero balances held by the portfolio's wallet.
func (r *Registry) Holdings(ctx context.Context, tokenId uint64) ([]models.AccountBalance, error) {
	var holdings []models.AccountBalance
	err := r.store.View(ctx, func(uow store.UnitOfWork) error {
		portfolio, err := uow.GetPortfolio(ctx, tokenId)
		if err != nil {
			return err
		}
		balances, err := uow.GetAllBalances(ctx, portfolio.Wallet)
		if err != nil {
			return err
		}
		for _, balance := range balances {
			if !balance.Balance.IsZero() {
				holdings = append(holdings, balance)
			}
		}
		return nil
	})
	return holdings, err
}

func (r *Registry) Events(ctx context.Context, tokenId uint64, limit, offset int) ([]models.Event, error) {
	var events []models.Event
	err := r.store.View(ctx, func(uow store.UnitOfWork) error {
		var err error
		events, err = uow.GetEvents(ctx, tokenId, limit, offset)
		return err
	})
	return events, err
}
