package catalog

type CreateUnitTypeRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	TotalQuantity int     `json:"total_quantity" validate:"required,gt=0"`
	PricePerDay   float64 `json:"price_per_day" validate:"gte=0"`
}

type CreateAssetRequest struct {
	UnitTypeID     int64  `json:"unit_type_id" validate:"required"`
	Serial         string `json:"serial" validate:"required"`
	ConditionScore int    `json:"condition_score" validate:"gte=0,lte=100"`
}

type UpdateAssetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available reserved active maintenance"`
}
