package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedNames = []string{
	"Alina", "Boris", "Chulpan", "Dmitry", "Elena",
	"Farid", "Galina", "Hasan", "Irina", "Jamal",
	"Karina", "Leonid", "Marina", "Nikita", "Olga",
	"Pavel", "Rania", "Sergey", "Tamara", "Umar",
}

// SeedDemoData resets the database and populates it with demo profiles,
// a spread of actions, and the matches those actions imply.
//
// Behavior:
//  1. Clears existing data in all four tables.
//  2. Creates 20 users, most with 1-3 photos.
//  3. Generates ~150 actions (~40% fuck / 40% marry / 20% kill), with every
//     3rd iteration forcing a reciprocal non-kill action.
//  4. Materializes match rows for every reciprocal non-kill pair, applying
//     the same instant/conditional rule as the resolver.
//
// Compatible with both MySQL and SQLite.
func SeedDemoData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "matches", "actions", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE matches AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE messages AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('matches', 'messages')")
	}

	log.Println("Cleared existing data")

	// --- Seed users ---
	languages := []string{"ru", "en", "ar"}
	for i := 1; i <= 20; i++ {
		user := User{
			TelegramUserID: int64(1000 + i),
			FirstName:      seedNames[i-1],
			Username:       fmt.Sprintf("user%d", i),
			Description:    fmt.Sprintf("Demo profile #%d", i),
			Language:       languages[r.Intn(len(languages))],
			Theme:          "light",
			FilmGrain:      true,
			Photos:         StringList{},
		}
		// leave a few users photoless so /next exclusion has targets
		if i%7 != 0 {
			for p := 0; p <= r.Intn(3); p++ {
				user.Photos = append(user.Photos,
					fmt.Sprintf("https://picsum.photos/seed/fmk%d-%d/600/800", i, p))
			}
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 20 users.")

	// --- Seed actions ---
	kinds := []string{ActionFuck, ActionFuck, ActionMarry, ActionMarry, ActionKill}
	counter := 0
	for i := 1; i <= 20; i++ {
		fromID := int64(1000 + i)
		for j := 0; j < 8; j++ {
			toID := int64(1000 + r.Intn(20) + 1)
			if fromID == toID {
				continue
			}

			kind := kinds[r.Intn(len(kinds))]

			// guarantee reciprocal pairs every 3rd action
			if counter%3 == 0 && kind != ActionKill {
				reciprocal := Action{
					FromUserID: toID,
					ToUserID:   fromID,
					Kind:       kinds[r.Intn(4)], // non-kill
				}
				db.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
				}).Create(&reciprocal)
			}

			action := Action{FromUserID: fromID, ToUserID: toID, Kind: kind}
			if err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
			}).Create(&action).Error; err != nil {
				return fmt.Errorf("failed to seed action: %w", err)
			}
			counter++
		}
	}
	log.Printf("Seeded %d actions.", counter)

	return materializeMatches(db)
}

// materializeMatches creates match rows for every reciprocal non-kill action
// pair, mirroring the resolver's rule.
func materializeMatches(db *gorm.DB) error {
	var actions []Action
	if err := db.Where("kind <> ?", ActionKill).Find(&actions).Error; err != nil {
		return err
	}

	byPair := make(map[[2]int64]string, len(actions))
	for _, a := range actions {
		byPair[[2]int64{a.FromUserID, a.ToUserID}] = a.Kind
	}

	created := 0
	for _, a := range actions {
		reverse, ok := byPair[[2]int64{a.ToUserID, a.FromUserID}]
		if !ok {
			continue
		}

		match := Match{
			User1ID: a.FromUserID,
			User2ID: a.ToUserID,
			PairKey: PairKey(a.FromUserID, a.ToUserID),
		}
		if a.Kind == reverse {
			match.Type = MatchInstant
			match.Confirm1 = true
			match.Confirm2 = true
		} else {
			match.Type = MatchConditional
		}

		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_key"}},
			DoNothing: true,
		}).Create(&match)
		if result.Error != nil {
			return fmt.Errorf("failed to seed match: %w", result.Error)
		}
		if match.ID != 0 {
			created++
		}
	}

	log.Printf("Seeded %d matches.", created)
	return nil
}

// SeedMinimalTestData wipes the database and inserts a small deterministic
// dataset for manual poking and fixtures.
func SeedMinimalTestData(db *gorm.DB) error {
	for _, table := range []string{"messages", "matches", "actions", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}

	users := []User{
		{TelegramUserID: 1001, FirstName: "Alina", Username: "alina", Photos: StringList{"https://example.com/a.jpg"}, Language: "ru", Theme: "light"},
		{TelegramUserID: 1002, FirstName: "Boris", Username: "boris", Photos: StringList{"https://example.com/b.jpg"}, Language: "en", Theme: "dark"},
		{TelegramUserID: 1003, FirstName: "Chulpan", Username: "chulpan", Photos: StringList{}, Language: "ru", Theme: "light"},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	actions := []Action{
		{FromUserID: 1001, ToUserID: 1002, Kind: ActionMarry},
		{FromUserID: 1002, ToUserID: 1001, Kind: ActionFuck},
		{FromUserID: 1003, ToUserID: 1001, Kind: ActionMarry},
	}
	if err := db.Create(&actions).Error; err != nil {
		return err
	}

	match := Match{
		User1ID: 1002,
		User2ID: 1001,
		PairKey: PairKey(1001, 1002),
		Type:    MatchConditional,
	}
	return db.Create(&match).Error
}
