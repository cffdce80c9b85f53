package model

import (
	"time"

	"gorm.io/datatypes"
)

// Submission review statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// GameState maps to the game_state table. Exactly one row carries
// is_active=true at a time; its CurrentLetter is the only letter open
// for submissions. Rotation deactivates the old row and inserts a new
// one, old rows are kept as history.
type GameState struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CurrentLetter string    `gorm:"column:current_letter;type:varchar(1);not null" json:"current_letter"`
	IsActive      bool      `gorm:"column:is_active;type:boolean;default:true;index" json:"is_active"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamp;default:now()" json:"created_at"`
}

func (GameState) TableName() string { return "game_state" }

// Submission maps to the submissions table. Rows are created by the
// intake flow with status pending and only ever mutated by the admin
// decision flow; they are never deleted.
type Submission struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PlayerName     string     `gorm:"column:player_name;type:varchar(128);not null;index" json:"player_name"`
	PlayerWallet   *string    `gorm:"column:player_wallet;type:varchar(64)" json:"player_wallet"`
	Letter         string     `gorm:"column:letter;type:varchar(1);not null;index" json:"letter"`
	ImageName      string     `gorm:"column:image_name;type:varchar(128);not null" json:"image_name"`
	ImagePath      string     `gorm:"column:image_path;type:varchar(512);not null" json:"image_path"`
	SubmissionName string     `gorm:"column:submission_name;type:varchar(256);not null" json:"submission_name"`
	Status         string     `gorm:"column:status;type:varchar(16);default:'pending';index" json:"status"`
	SubmittedAt    time.Time  `gorm:"column:submitted_at;type:timestamp;default:now()" json:"submitted_at"`
	ApprovedAt     *time.Time `gorm:"column:approved_at;type:timestamp" json:"approved_at"`
	AdminNotes     *string    `gorm:"column:admin_notes;type:text" json:"admin_notes"`
}

func (Submission) TableName() string { return "submissions" }

// Winner maps to the winners table. The unique index on letter is the
// storage-level guard behind the one-winner-per-letter rule: two
// concurrent approvals for the same letter cannot both insert.
// NFTToken holds the raw reward-service response and is only written
// by the reward dispatcher, after the win is already durable.
type Winner struct {
	ID                uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SubmissionID      *uint64        `gorm:"column:submission_id;index" json:"submission_id"`
	Submission        *Submission    `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
	PlayerName        string         `gorm:"column:player_name;type:varchar(128);not null" json:"player_name"`
	PlayerWallet      *string        `gorm:"column:player_wallet;type:varchar(64)" json:"player_wallet"`
	Letter            string         `gorm:"column:letter;type:varchar(1);uniqueIndex;not null" json:"letter"`
	NFTToken          datatypes.JSON `gorm:"column:nft_token;type:jsonb" json:"nft_token"`
	RewardDistributed bool           `gorm:"column:reward_distributed;type:boolean;default:false" json:"reward_distributed"`
	WonAt             time.Time      `gorm:"column:won_at;type:timestamp;default:now()" json:"won_at"`
}

func (Winner) TableName() string { return "winners" }
