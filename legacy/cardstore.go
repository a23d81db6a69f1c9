package legacy

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ErrCardNotFound is returned when no cardholder exists for a phone number.
var ErrCardNotFound = errors.New("cardholder not found")

// Cardholder is a row from the pre-migration fidelity card database.
type Cardholder struct {
	FirstName string
	LastName  string
	Amount    float64
}

// CardStore looks up fidelity cardholders in the legacy MySQL database so
// customers can carry their balance over when they register.
type CardStore interface {
	FindCardholder(phone string) (*Cardholder, error)
}

type mysqlCardStore struct {
	db *gorm.DB
}

type legacyCardRow struct {
	Prenom    string
	Nom       string
	Telephone string
	Solde     float64
}

func (legacyCardRow) TableName() string {
	return "carte_fidelite"
}

// NewCardStore connects to the legacy MySQL database. Returns nil when
// LEGACY_DATABASE_DSN is not configured; callers treat a nil store as
// "no legacy data available".
func NewCardStore() (CardStore, error) {
	dsn := os.Getenv("LEGACY_DATABASE_DSN")
	if dsn == "" {
		return nil, nil
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	log.Info().Msg("connected to legacy card database")
	return &mysqlCardStore{db: db}, nil
}

func (s *mysqlCardStore) FindCardholder(phone string) (*Cardholder, error) {
	var row legacyCardRow
	if err := s.db.Where("telephone = ?", phone).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	return &Cardholder{
		FirstName: row.Prenom,
		LastName:  row.Nom,
		Amount:    row.Solde,
	}, nil
}
