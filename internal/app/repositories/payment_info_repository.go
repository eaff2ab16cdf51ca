package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
)

// PaymentInfoRepository reads and replaces the single payment instruction row
type PaymentInfoRepository struct {
	base
}

// NewPaymentInfoRepository creates a new PaymentInfoRepository
func NewPaymentInfoRepository(pool *pgxpool.Pool) *PaymentInfoRepository {
	return &PaymentInfoRepository{base: newBase(pool)}
}

// Get returns the payment instructions, or nil when none were saved yet
func (r *PaymentInfoRepository) Get(ctx context.Context) (*models.PaymentInfo, error) {
	sql, args, err := r.sb.Select("id", "bank_info", "bkash_info", "nagad_info", "rocket_info", "updated_at").
		From("payment_info").
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get payment info query: %w", err)
	}

	info := &models.PaymentInfo{}
	err = r.q(ctx).QueryRow(ctx, sql, args...).Scan(
		&info.ID, &info.BankInfo, &info.BkashInfo, &info.NagadInfo, &info.RocketInfo, &info.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving payment info: %w", err)
	}
	return info, nil
}

// Save replaces the payment instructions, creating the row on first use
func (r *PaymentInfoRepository) Save(ctx context.Context, info *models.PaymentInfo) error {
	existing, err := r.Get(ctx)
	if err != nil {
		return err
	}

	info.UpdatedAt = time.Now()
	if existing == nil {
		sql, args, err := r.sb.Insert("payment_info").
			Columns("bank_info", "bkash_info", "nagad_info", "rocket_info", "updated_at").
			Values(info.BankInfo, info.BkashInfo, info.NagadInfo, info.RocketInfo, info.UpdatedAt).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create payment info query: %w", err)
		}
		if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&info.ID); err != nil {
			return fmt.Errorf("error creating payment info: %w", err)
		}
		return nil
	}

	info.ID = existing.ID
	_, err = r.exec(ctx, "update payment info", r.sb.Update("payment_info").
		Set("bank_info", info.BankInfo).
		Set("bkash_info", info.BkashInfo).
		Set("nagad_info", info.NagadInfo).
		Set("rocket_info", info.RocketInfo).
		Set("updated_at", info.UpdatedAt).
		Where(squirrel.Eq{"id": info.ID}))
	return err
}
