package degen

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tlskins/nft-tracker-app/internal/domain"
)

type walletResponse struct {
	Tracked            []trackerPayload `json:"tracked"`
	Untracked          []nftPayload     `json:"untracked"`
	TokenTrackingTypes []string         `json:"tokenTrackingTypes"`
}

type trackerResponse struct {
	Tracker trackerPayload `json:"tracker"`
}

type trackersResponse struct {
	Trackers []trackerPayload `json:"trackers"`
}

type userResponse struct {
	User *userPayload `json:"user"`
}

type predictRequest struct {
	Collection string   `json:"collection"`
	IDs        []string `json:"ids"`
}

type updateTrackerRequest struct {
	ID               string          `json:"id"`
	Active           bool            `json:"active"`
	TokenTrackerType *string         `json:"tokenTrackerType,omitempty"`
	Above            NullableDecimal `json:"above"`
	Below            NullableDecimal `json:"below"`
}

type profileRequest struct {
	TrackedWallets *[]string `json:"trackedWallets,omitempty"`
}

type trackerPayload struct {
	ID            string          `json:"id"`
	LastSync      time.Time       `json:"lastSync"`
	TokenAddress  string          `json:"tokenAddress"`
	WalletAddress string          `json:"walletAddress"`
	UserID        string          `json:"userId"`
	Active        bool            `json:"active"`
	TrackerType   *string         `json:"tokenTrackerType"`
	LastAlertAt   *time.Time      `json:"lastAlertAt"`
	Above         NullableDecimal `json:"above"`
	Below         NullableDecimal `json:"below"`
	Token         *tokenPayload   `json:"token"`
}

type tokenPayload struct {
	ID             string             `json:"id"`
	UpdatedAt      time.Time          `json:"updatedAt"`
	Title          string             `json:"title"`
	Image          string             `json:"image"`
	TokenAddress   string             `json:"tokenAddress"`
	TokenNumber    int                `json:"tokenNumber"`
	Collection     string             `json:"collection"`
	Rank           *int               `json:"rank"`
	Price          NullableDecimal    `json:"price"`
	Rarity         string             `json:"rarity"`
	FloorPrice     NullableDecimal    `json:"floorPrice"`
	SuggestedPrice NullableDecimal    `json:"suggestedPrice"`
	LastCalcAt     *time.Time         `json:"lastCalcAt"`
	Attributes     []attributePayload `json:"attributes"`
	TopAttributes  []attributePayload `json:"topAttributes"`
}

type attributePayload struct {
	Name   string          `json:"name"`
	Value  string          `json:"value"`
	Rarity string          `json:"rarity"`
	Score  NullableDecimal `json:"score"`
}

type nftPayload struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	SellerFeeBasisPoints int              `json:"sellerFeeBasisPoints"`
	Symbol               string           `json:"symbol"`
	TokenID              string           `json:"tokenID"`
	URI                  string           `json:"uri"`
	WalletAddress        string           `json:"walletAddress"`
	UserID               string           `json:"userId"`
	Creators             []creatorPayload `json:"creators"`
	Network              networkPayload   `json:"network"`
	TokenData            tokenDataPayload `json:"tokenData"`
}

type creatorPayload struct {
	Address  string `json:"address"`
	Verified int    `json:"verified"`
	Share    int    `json:"share"`
}

type networkPayload struct {
	ChainID   string `json:"chainId"`
	ChainName string `json:"chainName"`
}

type tokenDataPayload struct {
	UpdateAuthority     string           `json:"updateAuthority"`
	PrimarySaleHappened int              `json:"primarySaleHappened"`
	Mint                string           `json:"mint"`
	IsMutable           int              `json:"isMutable"`
	Creators            []creatorPayload `json:"creators"`
}

type userPayload struct {
	ID              string     `json:"id"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	WalletPublicKey string     `json:"walletPublicKey"`
	DiscordID       string     `json:"discordId"`
	DiscordName     string     `json:"discordName"`
	InactiveDate    *time.Time `json:"inactiveDate"`
	Verified        bool       `json:"verified"`
	IsOG            bool       `json:"isOG"`
	TrackedWallets  []string   `json:"trackedWallets"`
}

type wsMessage struct {
	EventType string          `json:"eventType"`
	Changes   []wsPriceChange `json:"changes"`
}

type wsPriceChange struct {
	Collection     string          `json:"collection"`
	FloorPrice     NullableDecimal `json:"floorPrice"`
	SuggestedPrice NullableDecimal `json:"suggestedPrice"`
}

// NullableDecimal decodes an optional price that may arrive as a JSON
// number, a quoted number, or null.
type NullableDecimal struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (n *NullableDecimal) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		n.Valid = false
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) == 0 {
		n.Valid = false
		return nil
	}
	if trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		trimmed = strings.Trim(trimmed, "\"")
	}
	dec, err := decimal.NewFromString(trimmed)
	if err != nil {
		n.Valid = false
		return err
	}
	n.Decimal = dec
	n.Valid = true
	return nil
}

func (n NullableDecimal) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Decimal.String())
}

func (n NullableDecimal) ptr() *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	value := n.Decimal
	return &value
}

func nullable(value *decimal.Decimal) NullableDecimal {
	if value == nil {
		return NullableDecimal{}
	}
	return NullableDecimal{Decimal: *value, Valid: true}
}

func mapTracker(payload trackerPayload) domain.TokenTracker {
	tracker := domain.TokenTracker{
		ID:            payload.ID,
		LastSync:      payload.LastSync,
		TokenAddress:  payload.TokenAddress,
		WalletAddress: payload.WalletAddress,
		UserID:        payload.UserID,
		Active:        payload.Active,
		LastAlertAt:   payload.LastAlertAt,
		Above:         payload.Above.ptr(),
		Below:         payload.Below.ptr(),
	}
	if payload.TrackerType != nil {
		// Unknown type strings from newer backends are dropped rather
		// than carried as free-form values.
		if trackerType, err := domain.ParseTrackerType(*payload.TrackerType); err == nil {
			tracker.TrackerType = &trackerType
		}
	}
	if payload.Token != nil {
		token := mapToken(*payload.Token)
		tracker.Token = &token
	}
	return tracker
}

func mapTrackers(payloads []trackerPayload) []domain.TokenTracker {
	trackers := make([]domain.TokenTracker, 0, len(payloads))
	for _, payload := range payloads {
		trackers = append(trackers, mapTracker(payload))
	}
	return trackers
}

func mapToken(payload tokenPayload) domain.Token {
	return domain.Token{
		ID:             payload.ID,
		UpdatedAt:      payload.UpdatedAt,
		Title:          payload.Title,
		Image:          payload.Image,
		TokenAddress:   payload.TokenAddress,
		TokenNumber:    payload.TokenNumber,
		Collection:     payload.Collection,
		Rank:           payload.Rank,
		Price:          payload.Price.ptr(),
		Rarity:         payload.Rarity,
		FloorPrice:     payload.FloorPrice.ptr(),
		SuggestedPrice: payload.SuggestedPrice.ptr(),
		LastCalcAt:     payload.LastCalcAt,
		Attributes:     mapAttributes(payload.Attributes),
		TopAttributes:  mapAttributes(payload.TopAttributes),
	}
}

func mapAttributes(payloads []attributePayload) []domain.TokenAttribute {
	if len(payloads) == 0 {
		return nil
	}
	attributes := make([]domain.TokenAttribute, 0, len(payloads))
	for _, payload := range payloads {
		attributes = append(attributes, domain.TokenAttribute{
			Name:   payload.Name,
			Value:  payload.Value,
			Rarity: payload.Rarity,
			Score:  payload.Score.ptr(),
		})
	}
	return attributes
}

func mapNfts(payloads []nftPayload) []domain.Nft {
	nfts := make([]domain.Nft, 0, len(payloads))
	for _, payload := range payloads {
		nfts = append(nfts, domain.Nft{
			ID:                   payload.ID,
			Name:                 payload.Name,
			SellerFeeBasisPoints: payload.SellerFeeBasisPoints,
			Symbol:               payload.Symbol,
			TokenID:              payload.TokenID,
			URI:                  payload.URI,
			WalletAddress:        payload.WalletAddress,
			UserID:               payload.UserID,
			Creators:             mapCreators(payload.Creators),
			Network: domain.BlockchainNetwork{
				ChainID:   payload.Network.ChainID,
				ChainName: payload.Network.ChainName,
			},
			Data: domain.TokenData{
				UpdateAuthority:     payload.TokenData.UpdateAuthority,
				PrimarySaleHappened: payload.TokenData.PrimarySaleHappened,
				Mint:                payload.TokenData.Mint,
				IsMutable:           payload.TokenData.IsMutable,
				Creators:            mapCreators(payload.TokenData.Creators),
			},
		})
	}
	return nfts
}

func mapCreators(payloads []creatorPayload) []domain.Creator {
	if len(payloads) == 0 {
		return nil
	}
	creators := make([]domain.Creator, 0, len(payloads))
	for _, payload := range payloads {
		creators = append(creators, domain.Creator{
			Address:  payload.Address,
			Verified: payload.Verified,
			Share:    payload.Share,
		})
	}
	return creators
}

func mapTrackingTypes(values []string) []domain.TrackerType {
	types := make([]domain.TrackerType, 0, len(values))
	for _, value := range values {
		if trackerType, err := domain.ParseTrackerType(value); err == nil {
			types = append(types, trackerType)
		}
	}
	return types
}

func mapUser(payload *userPayload) *domain.User {
	if payload == nil {
		return nil
	}
	return &domain.User{
		ID:              payload.ID,
		CreatedAt:       payload.CreatedAt,
		UpdatedAt:       payload.UpdatedAt,
		WalletPublicKey: payload.WalletPublicKey,
		DiscordID:       payload.DiscordID,
		DiscordName:     payload.DiscordName,
		InactiveDate:    payload.InactiveDate,
		Verified:        payload.Verified,
		IsOG:            payload.IsOG,
		TrackedWallets:  payload.TrackedWallets,
	}
}
