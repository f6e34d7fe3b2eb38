// Package seed loads demo clients, auctions and lots from a YAML fixture.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/fotherbys-backend/internal/data/db"
	"github.com/yungbote/fotherbys-backend/internal/data/repos"
	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/modules/valuation"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

type Fixture struct {
	Clients  []ClientSeed  `yaml:"clients"`
	Auctions []AuctionSeed `yaml:"auctions"`
	Lots     []LotSeed     `yaml:"lots"`
}

type ClientSeed struct {
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Phone      string `yaml:"phone"`
	Address    string `yaml:"address"`
	ClientType string `yaml:"client_type"`
	Staff      bool   `yaml:"staff"`
}

// AuctionSeed dates are relative to the day the seed runs.
type AuctionSeed struct {
	Key         string `yaml:"key"`
	Title       string `yaml:"title"`
	Location    string `yaml:"location"`
	DayOffset   int    `yaml:"day_offset"`
	StartTime   string `yaml:"start_time"`
	AuctionType string `yaml:"auction_type"`
	Theme       string `yaml:"theme"`
}

type LotSeed struct {
	Reference    string  `yaml:"reference"`
	Artist       string  `yaml:"artist"`
	Title        string  `yaml:"title"`
	Year         *int    `yaml:"year"`
	Category     string  `yaml:"category"`
	Dimensions   string  `yaml:"dimensions"`
	Framing      string  `yaml:"framing"`
	Material     string  `yaml:"material"`
	Description  string  `yaml:"description"`
	EstimateLow  float64 `yaml:"estimate_low"`
	EstimateHigh float64 `yaml:"estimate_high"`
	ReservePrice float64 `yaml:"reserve_price"`
	Seller       string  `yaml:"seller"`
	Auction      string  `yaml:"auction"`
}

type Result struct {
	ClientsCreated  int
	AuctionsCreated int
	LotsCreated     int
	Skipped         int
}

type Repos struct {
	Client  repos.ClientRepo
	Auction repos.AuctionRepo
	Lot     repos.LotRepo
}

func Load(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	emails := map[string]bool{}
	for i, c := range f.Clients {
		email := strings.ToLower(strings.TrimSpace(c.Email))
		if email == "" || strings.TrimSpace(c.Password) == "" {
			return fmt.Errorf("clients[%d]: email and password are required", i)
		}
		if c.ClientType != "" {
			if _, ok := types.ParseClientType(c.ClientType); !ok {
				return fmt.Errorf("clients[%d]: unknown client_type %q", i, c.ClientType)
			}
		}
		emails[email] = true
	}
	keys := map[string]bool{}
	for i, a := range f.Auctions {
		if strings.TrimSpace(a.Key) == "" || strings.TrimSpace(a.Title) == "" {
			return fmt.Errorf("auctions[%d]: key and title are required", i)
		}
		if keys[a.Key] {
			return fmt.Errorf("auctions[%d]: duplicate key %q", i, a.Key)
		}
		keys[a.Key] = true
		if _, ok := types.ParseLocation(a.Location); !ok {
			return fmt.Errorf("auctions[%d]: unknown location %q", i, a.Location)
		}
		if _, ok := types.ParseStartTime(a.StartTime); !ok {
			return fmt.Errorf("auctions[%d]: start_time must be one of %v", i, types.StartTimes)
		}
		if a.AuctionType != "" {
			if _, ok := types.ParseAuctionType(a.AuctionType); !ok {
				return fmt.Errorf("auctions[%d]: unknown auction_type %q", i, a.AuctionType)
			}
		}
	}
	refs := map[string]bool{}
	for i, l := range f.Lots {
		if strings.TrimSpace(l.Reference) == "" || strings.TrimSpace(l.Artist) == "" || strings.TrimSpace(l.Title) == "" {
			return fmt.Errorf("lots[%d]: reference, artist and title are required", i)
		}
		if refs[l.Reference] {
			return fmt.Errorf("lots[%d]: duplicate reference %q", i, l.Reference)
		}
		refs[l.Reference] = true
		if l.EstimateLow < 0 || l.EstimateHigh < l.EstimateLow || l.ReservePrice < 0 {
			return fmt.Errorf("lots[%d]: estimates must satisfy 0 <= low <= high", i)
		}
		if !emails[strings.ToLower(strings.TrimSpace(l.Seller))] {
			return fmt.Errorf("lots[%d]: seller %q is not a fixture client", i, l.Seller)
		}
		if l.Auction != "" && !keys[l.Auction] {
			return fmt.Errorf("lots[%d]: unknown auction key %q", i, l.Auction)
		}
	}
	return nil
}

// Apply writes the fixture in one transaction. Rows that already exist are left untouched.
func Apply(ctx context.Context, tx db.TxRunner, r Repos, log *logger.Logger, today time.Time, f *Fixture) (Result, error) {
	var res Result
	err := tx.InTx(ctx, func(dbc dbctx.Context) error {
		res = Result{}
		clientIDs, err := applyClients(dbc, r, f.Clients, &res)
		if err != nil {
			return err
		}
		auctionIDs, err := applyAuctions(dbc, r, today, f.Auctions, &res)
		if err != nil {
			return err
		}
		return applyLots(dbc, r, f.Lots, clientIDs, auctionIDs, &res)
	})
	if err != nil {
		return Result{}, err
	}
	log.Info("Seed applied",
		"clients_created", res.ClientsCreated,
		"auctions_created", res.AuctionsCreated,
		"lots_created", res.LotsCreated,
		"skipped", res.Skipped,
	)
	return res, nil
}

func applyClients(dbc dbctx.Context, r Repos, seeds []ClientSeed, res *Result) (map[string]uuid.UUID, error) {
	ids := map[string]uuid.UUID{}
	for _, c := range seeds {
		email := strings.ToLower(strings.TrimSpace(c.Email))
		existing, err := r.Client.GetByEmail(dbc, email)
		if err != nil {
			return nil, fmt.Errorf("lookup client %s: %w", email, err)
		}
		if existing != nil {
			ids[email] = existing.ID
			res.Skipped++
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", email, err)
		}
		ct := types.ClientTypeBuyer
		if parsed, ok := types.ParseClientType(c.ClientType); ok {
			ct = parsed
		}
		row := &types.Client{
			Name:         strings.TrimSpace(c.Name),
			Email:        email,
			PasswordHash: string(hash),
			Phone:        strings.TrimSpace(c.Phone),
			Address:      strings.TrimSpace(c.Address),
			ClientType:   ct,
			IsStaff:      c.Staff,
		}
		if _, err := r.Client.Create(dbc, []*types.Client{row}); err != nil {
			return nil, fmt.Errorf("create client %s: %w", email, err)
		}
		ids[email] = row.ID
		res.ClientsCreated++
	}
	return ids, nil
}

func applyAuctions(dbc dbctx.Context, r Repos, today time.Time, seeds []AuctionSeed, res *Result) (map[string]*types.Auction, error) {
	out := map[string]*types.Auction{}
	if len(seeds) == 0 {
		return out, nil
	}
	live, err := r.Auction.List(dbc, repos.AuctionFilter{})
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	archived, err := r.Auction.List(dbc, repos.AuctionFilter{ArchivedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list archived auctions: %w", err)
	}
	existing := append(live, archived...)

	for _, a := range seeds {
		date := types.CalendarDay(today).AddDate(0, 0, a.DayOffset)
		title := strings.TrimSpace(a.Title)
		if found := findAuction(existing, title, date); found != nil {
			out[a.Key] = found
			res.Skipped++
			continue
		}
		loc, _ := types.ParseLocation(a.Location)
		start, _ := types.ParseStartTime(a.StartTime)
		at := types.AuctionTypePhysical
		if parsed, ok := types.ParseAuctionType(a.AuctionType); ok {
			at = parsed
		}
		row := &types.Auction{
			Title:       title,
			Location:    loc,
			AuctionDate: types.DateOf(date),
			StartTime:   start,
			AuctionType: at,
			Theme:       strings.TrimSpace(a.Theme),
		}
		if _, err := r.Auction.Create(dbc, []*types.Auction{row}); err != nil {
			return nil, fmt.Errorf("create auction %s: %w", a.Key, err)
		}
		out[a.Key] = row
		res.AuctionsCreated++
	}
	return out, nil
}

func findAuction(rows []*types.Auction, title string, date time.Time) *types.Auction {
	for _, row := range rows {
		if row.Title == title && row.Date().Equal(types.CalendarDay(date)) {
			return row
		}
	}
	return nil
}

func applyLots(dbc dbctx.Context, r Repos, seeds []LotSeed, clientIDs map[string]uuid.UUID, auctions map[string]*types.Auction, res *Result) error {
	for _, l := range seeds {
		ref := strings.TrimSpace(l.Reference)
		exists, err := r.Lot.ReferenceExists(dbc, ref)
		if err != nil {
			return fmt.Errorf("lookup lot %s: %w", ref, err)
		}
		if exists {
			res.Skipped++
			continue
		}
		category := strings.TrimSpace(l.Category)
		if category == "" {
			category = types.DefaultCategory
		}
		row := &types.Lot{
			LotReference: ref,
			Artist:       strings.TrimSpace(l.Artist),
			Title:        strings.TrimSpace(l.Title),
			Year:         l.Year,
			Category:     category,
			Dimensions:   strings.TrimSpace(l.Dimensions),
			Framing:      strings.TrimSpace(l.Framing),
			Material:     strings.TrimSpace(l.Material),
			Description:  strings.TrimSpace(l.Description),
			EstimateLow:  valuation.RoundCurrency(l.EstimateLow),
			EstimateHigh: valuation.RoundCurrency(l.EstimateHigh),
			ReservePrice: valuation.RoundCurrency(l.ReservePrice),
			TriageStatus: valuation.SuggestTriage(l.EstimateLow).Suggested,
			Status:       types.LotStatusPending,
			SellerID:     clientIDs[strings.ToLower(strings.TrimSpace(l.Seller))],
		}
		if a, ok := auctions[l.Auction]; ok && a != nil {
			id := a.ID
			row.AuctionID = &id
			row.Status = types.LotStatusListed
		}
		if _, err := r.Lot.Create(dbc, []*types.Lot{row}); err != nil {
			return fmt.Errorf("create lot %s: %w", ref, err)
		}
		res.LotsCreated++
	}
	return nil
}
