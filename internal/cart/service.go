package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/karimfahmy/sofra-backend/internal/menu"
	"github.com/karimfahmy/sofra-backend/pkg/config"
	"github.com/karimfahmy/sofra-backend/pkg/db"
	"github.com/karimfahmy/sofra-backend/pkg/db/models"
	pkgerrors "github.com/karimfahmy/sofra-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type menuLoader interface {
	GetItemSnapshot(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
}

var _ menuLoader = (*menu.Repository)(nil)

// Service owns the active cart for a user: add, merge, update, and remove
// lines, recomputing the subtotal after every mutation.
type Service interface {
	EnsureActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error)
}

type service struct {
	repo CartRepository
	tx   txRunner
	menu menuLoader
	cfg  config.CartConfig
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, menuRepo menuLoader, cfg config.CartConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if menuRepo == nil {
		return nil, fmt.Errorf("menu loader required")
	}
	if cfg.MaxLineQty <= 0 {
		return nil, fmt.Errorf("max line quantity must be positive")
	}
	return &service{repo: repo, tx: tx, menu: menuRepo, cfg: cfg}, nil
}

// AddItemInput captures an add-to-cart request.
type AddItemInput struct {
	MenuItemID uuid.UUID
	Quantity   int
	Note       *string
	Selections []SelectionInput
}

// EnsureActiveCart returns the user's active cart, creating one if absent.
func (s *service) EnsureActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
	}
	created, err := s.repo.Create(ctx, &models.Cart{UserID: userID, Subtotal: decimal.Zero})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

// GetActiveCart returns the active cart for the user, or not-found.
func (s *service) GetActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
	}
	return cart, nil
}

// AddItem validates the selection against the live menu rules, snapshots
// prices, and merges into an existing line when the content hash matches.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.Quantity > s.cfg.MaxLineQty {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity exceeds the per-line maximum of %d", s.cfg.MaxLineQty))
	}

	item, err := s.menu.GetItemSnapshot(ctx, input.MenuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	if !item.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item is not available")
	}

	note := normalizedNotePtr(input.Note)
	if note != nil && !item.AllowsNotes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "this item does not accept notes")
	}

	choices, addons, err := resolveSelections(item, input.Selections)
	if err != nil {
		return nil, err
	}

	hash := ContentHash(input.MenuItemID, input.Selections, input.Note)

	var saved *models.Cart
	attempt := func() error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)

			cart, err := txRepo.FindActiveByUser(ctx, userID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				cart, err = txRepo.Create(ctx, &models.Cart{UserID: userID, Subtotal: decimal.Zero})
				if err != nil {
					return err
				}
			}

			existing, err := txRepo.FindItemByHash(ctx, cart.ID, hash)
			switch {
			case err == nil:
				merged := existing.Quantity + input.Quantity
				if merged > s.cfg.MaxLineQty {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("line quantity cannot exceed %d", s.cfg.MaxLineQty))
				}
				existing.Quantity = merged
				existing.LineTotal = existing.UnitPrice().Mul(decimal.NewFromInt(int64(merged)))
				if err := txRepo.SaveItem(ctx, existing); err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				line := &models.CartItem{
					CartID:      cart.ID,
					MenuItemID:  item.ID,
					NameEn:      item.NameEn,
					NameAr:      item.NameAr,
					BasePrice:   item.BasePrice,
					AddonsPrice: addons,
					Quantity:    input.Quantity,
					Note:        note,
					ContentHash: hash,
					Choices:     choices,
				}
				line.LineTotal = line.UnitPrice().Mul(decimal.NewFromInt(int64(input.Quantity)))
				if _, err := txRepo.CreateItem(ctx, line); err != nil {
					return err
				}
			default:
				return err
			}

			if err := recomputeSubtotal(ctx, txRepo, cart.ID); err != nil {
				return err
			}

			saved, err = txRepo.FindActiveByUser(ctx, userID)
			return err
		})
	}

	err = attempt()
	if err != nil && db.IsUniqueViolation(err, "") {
		// Lost a race inserting the same cart or line configuration; the
		// rerun finds the winner's row and merges into it.
		err = attempt()
	}
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart line")
	}

	return saved, nil
}

// UpdateQuantity sets a line's quantity; zero deletes the line. The line
// total is recomputed from the stored unit price, never from the live menu.
func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}
	if quantity > s.cfg.MaxLineQty {
		quantity = s.cfg.MaxLineQty
	}

	var saved *models.Cart
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := txRepo.FindActiveByUser(ctx, userID)
		if err != nil {
			return err
		}
		line, err := txRepo.FindItemByID(ctx, cart.ID, itemID)
		if err != nil {
			return err
		}

		line.Quantity = quantity
		line.LineTotal = line.UnitPrice().Mul(decimal.NewFromInt(int64(quantity)))
		if err := txRepo.SaveItem(ctx, line); err != nil {
			return err
		}

		if err := recomputeSubtotal(ctx, txRepo, cart.ID); err != nil {
			return err
		}

		saved, err = txRepo.FindActiveByUser(ctx, userID)
		return err
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}

	return saved, nil
}

// RemoveItem deletes a line belonging to the caller's active cart.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var saved *models.Cart
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := txRepo.FindActiveByUser(ctx, userID)
		if err != nil {
			return err
		}
		if _, err := txRepo.FindItemByID(ctx, cart.ID, itemID); err != nil {
			return err
		}
		if err := txRepo.DeleteItem(ctx, cart.ID, itemID); err != nil {
			return err
		}

		if err := recomputeSubtotal(ctx, txRepo, cart.ID); err != nil {
			return err
		}

		saved, err = txRepo.FindActiveByUser(ctx, userID)
		return err
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}

	return saved, nil
}

func recomputeSubtotal(ctx context.Context, repo CartRepository, cartID uuid.UUID) error {
	subtotal, err := repo.SumLineTotals(ctx, cartID)
	if err != nil {
		return err
	}
	return repo.UpdateSubtotal(ctx, cartID, subtotal)
}

// resolveSelections checks the selections against the item's live choice
// group rules and returns the snapshotted choices plus the add-on total.
func resolveSelections(item *models.MenuItem, selections []SelectionInput) ([]models.CartItemChoice, decimal.Decimal, error) {
	groupsByID := make(map[uuid.UUID]*models.ChoiceGroup, len(item.ChoiceGroups))
	for i := range item.ChoiceGroups {
		groupsByID[item.ChoiceGroups[i].ID] = &item.ChoiceGroups[i]
	}

	picked := make(map[uuid.UUID]map[uuid.UUID]struct{}, len(selections))
	for _, sel := range selections {
		group, ok := groupsByID[sel.GroupID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "unknown choice group")
		}
		if picked[group.ID] == nil {
			picked[group.ID] = map[uuid.UUID]struct{}{}
		}
		for _, optID := range sel.OptionIDs {
			picked[group.ID][optID] = struct{}{}
		}
	}

	var choices []models.CartItemChoice
	addons := decimal.Zero

	for i := range item.ChoiceGroups {
		group := &item.ChoiceGroups[i]
		selected := picked[group.ID]

		if len(selected) < group.MinSelect {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("choice group %q requires at least %d selection(s)", group.NameEn, group.MinSelect))
		}
		if len(selected) > group.MaxSelect {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("choice group %q allows at most %d selection(s)", group.NameEn, group.MaxSelect))
		}

		// Walk the group's options in their stored sort order so choice
		// snapshots persist in a stable display order.
		matched := 0
		for j := range group.Options {
			option := &group.Options[j]
			if _, ok := selected[option.ID]; !ok {
				continue
			}
			matched++
			if !option.IsAvailable {
				return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("option %q is not available", option.NameEn))
			}
			addons = addons.Add(option.ExtraPrice)
			optionID := option.ID
			choices = append(choices, models.CartItemChoice{
				OptionID:     &optionID,
				GroupNameEn:  group.NameEn,
				GroupNameAr:  group.NameAr,
				OptionNameEn: option.NameEn,
				OptionNameAr: option.NameAr,
				ExtraPrice:   option.ExtraPrice,
			})
		}
		if matched != len(selected) {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "unknown choice option")
		}
	}

	return choices, addons, nil
}

func normalizedNotePtr(note *string) *string {
	trimmed := normalizeNote(note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
