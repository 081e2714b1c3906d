package survey

// SurveyResponse is the passenger's rating of a finished service. One
// logical row per order: a second submission updates points and
// comments instead of appending.
type SurveyResponse struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint   `gorm:"not null;index" json:"order_id"`
	Reference string `gorm:"type:varchar(100);not null" json:"reference"`
	Points    int    `gorm:"not null" json:"points"`
	Comments  string `gorm:"type:text" json:"comments"`
	SubmittedOn string `gorm:"type:varchar(30)" json:"submitted_on"`
}

// TableName sets the table name for the SurveyResponse model
func (SurveyResponse) TableName() string {
	return "survey_responses"
}
