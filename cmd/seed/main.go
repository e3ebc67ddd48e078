package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/users"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/security"
)

const tempPasswordLength = 16

type options struct {
	categories int
	products   int
	seed       uint64
	staffUser  string
	staffEmail string
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	var opts options
	flag.IntVar(&opts.categories, "categories", 4, "number of categories to create")
	flag.IntVar(&opts.products, "products", 10, "products to create per category")
	flag.Uint64Var(&opts.seed, "seed", 0, "faker seed (0 picks a random one)")
	flag.StringVar(&opts.staffUser, "staff-username", "", "create a staff account with this username")
	flag.StringVar(&opts.staffEmail, "staff-email", "", "email of the staff account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(ctx, cfg, logg, opts); err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts options) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:   catalog.NewRepository(dbClient.DB()),
		Config: cfg.Catalog,
	})
	if err != nil {
		return err
	}

	faker := gofakeit.New(opts.seed)
	created, err := seedCatalog(ctx, catalogService, faker, opts)
	ctx = logg.WithFields(ctx, map[string]any{"products_created": created})
	if err != nil {
		return err
	}
	logg.Info(ctx, "catalog seeded")

	if opts.staffUser == "" {
		return nil
	}
	return seedStaff(ctx, cfg, users.NewRepository(dbClient.DB()), logg, opts)
}

// seedCatalog keeps going past individual failures and reports them together.
func seedCatalog(ctx context.Context, svc catalog.Service, faker *gofakeit.Faker, opts options) (int, error) {
	var errs error
	created := 0
	for i := 0; i < opts.categories; i++ {
		category, err := svc.CreateCategory(ctx, catalog.CategoryInput{
			Name: fmt.Sprintf("%s %d", faker.ProductCategory(), i+1),
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("category %d: %w", i+1, err))
			continue
		}

		for j := 0; j < opts.products; j++ {
			inStock := faker.Number(1, 10) > 1
			_, err := svc.CreateProduct(ctx, catalog.ProductInput{
				CategoryID:  category.ID,
				Title:       faker.ProductName(),
				Description: faker.ProductDescription(),
				Price:       decimal.NewFromFloat(faker.Price(1, 250)).Round(2),
				InStock:     &inStock,
			})
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("product %d in %s: %w", j+1, category.Slug, err))
				continue
			}
			created++
		}
	}
	return created, errs
}

func seedStaff(ctx context.Context, cfg *config.Config, repo *users.Repository, logg *logger.Logger, opts options) error {
	password, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return err
	}
	hash, err := security.HashPassword(password, cfg.Password)
	if err != nil {
		return err
	}

	user, err := repo.Create(ctx, users.CreateUserDTO{
		Username:     opts.staffUser,
		Email:        opts.staffEmail,
		PasswordHash: hash,
		FirstName:    "Store",
		LastName:     "Staff",
		IsStaff:      true,
	})
	if err != nil {
		return fmt.Errorf("creating staff user: %w", err)
	}

	logg.Info(logg.WithUserID(ctx, user.ID.String()), "staff account created")
	fmt.Printf("staff login: %s / %s\n", opts.staffUser, password)
	return nil
}
