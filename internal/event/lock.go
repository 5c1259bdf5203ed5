package event

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockEvent loads the event row with SELECT ... FOR UPDATE inside tx. sqlite ignores the
// locking clause; its writers are already serialized.
func LockEvent(tx *gorm.DB, id uint) (*Event, error) {
	var e Event
	if err := lockEvent(tx, id, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func lockEvent(tx *gorm.DB, id uint, dest *Event) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEventNotFound
	}
	return err
}
