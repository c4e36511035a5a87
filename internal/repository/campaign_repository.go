package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/mailcanvas/campaign-backend/internal/errors"
	"github.com/mailcanvas/campaign-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Save(c *model.Campaign) error
	GetByID(id string) (*model.Campaign, error)
	ListAll() ([]*model.Campaign, error)
	Delete(id string) error
}

// CampaignRepository stores each campaign aggregate as one JSON document.
type CampaignRepository struct {
	DB *sql.DB
}

// Save inserts the campaign, or replaces the stored document when the id
// already exists. One statement, so the write is atomic.
func (r *CampaignRepository) Save(c *model.Campaign) error {
	now := time.Now().UTC()
	if c.ID == "" {
		c.ID = uuid.NewString()
		c.CreatedAt = now
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	doc, err := json.Marshal(c)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO campaigns (id, doc, created_at, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
    `
	_, err = r.DB.Exec(query, c.ID, doc, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *CampaignRepository) GetByID(id string) (*model.Campaign, error) {
	var doc []byte
	err := r.DB.QueryRow(`SELECT doc FROM campaigns WHERE id=$1`, id).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewCampaignNotFound(id)
		}
		return nil, err
	}

	var c model.Campaign
	if err := json.Unmarshal(doc, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) ListAll() ([]*model.Campaign, error) {
	rows, err := r.DB.Query(`SELECT doc FROM campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		c := &model.Campaign{}
		if err := json.Unmarshal(doc, c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) Delete(id string) error {
	res, err := r.DB.Exec(`DELETE FROM campaigns WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NewCampaignNotFound(id)
	}
	return nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
