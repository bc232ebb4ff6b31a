package model

// Owned is embedded by every per-user resource. bun inlines its columns.
type Owned struct {
	ID              int64 `bun:"id,pk,autoincrement" json:"id"`
	PortfolioUserID int64 `bun:"portfolio_user_id,notnull" json:"portfolioUserId"`
	Revision        int64 `bun:"revision,notnull,default:1" json:"-"`
}

func (o *Owned) RecordID() int64             { return o.ID }
func (o *Owned) SetRecordID(id int64)        { o.ID = id }
func (o *Owned) OwnerID() int64              { return o.PortfolioUserID }
func (o *Owned) SetOwnerID(userID int64)     { o.PortfolioUserID = userID }
func (o *Owned) RecordRevision() int64       { return o.Revision }
func (o *Owned) SetRecordRevision(rev int64) { o.Revision = rev }
