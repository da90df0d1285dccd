package models

import (
	"context"
	"database/sql/driver"
	"strconv"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// JSON is a raw JSON document column. It behaves like datatypes.JSON but is kept
// in a TEXT column on sqlite, where a JSON column has numeric affinity and would
// turn documents such as 250 or 1.5 into numbers.
type JSON datatypes.JSON

// Value implements driver.Valuer.
func (j JSON) Value() (driver.Value, error) {
	return datatypes.JSON(j).Value()
}

// Scan implements sql.Scanner. Numbers read back from columns created with
// numeric affinity are turned into their JSON text.
func (j *JSON) Scan(value any) error {
	switch v := value.(type) {
	case int64:
		*j = JSON(strconv.FormatInt(v, 10))
		return nil
	case float64:
		*j = JSON(strconv.FormatFloat(v, 'g', -1, 64))
		return nil
	}

	var raw datatypes.JSON
	if err := raw.Scan(value); err != nil {
		return err //nolint:wrapcheck
	}

	*j = JSON(raw)

	return nil
}

// MarshalJSON writes the document as is.
func (j JSON) MarshalJSON() ([]byte, error) {
	return datatypes.JSON(j).MarshalJSON()
}

// UnmarshalJSON keeps the raw document.
func (j *JSON) UnmarshalJSON(b []byte) error {
	var raw datatypes.JSON
	if err := raw.UnmarshalJSON(b); err != nil {
		return err //nolint:wrapcheck
	}

	*j = JSON(raw)

	return nil
}

func (j JSON) String() string {
	return string(j)
}

// GormDataType implements schema.GormDataTypeInterface.
func (JSON) GormDataType() string {
	return "json"
}

// GormDBDataType implements migrator.GormDataTypeInterface.
func (j JSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "sqlite" {
		return "TEXT"
	}

	return datatypes.JSON(j).GormDBDataType(db, field)
}

// GormValue implements gorm.Valuer.
func (j JSON) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	return datatypes.JSON(j).GormValue(ctx, db)
}
