package main

import (
	"context"
	"log"
	"os"

	"github.com/Rouggerxavier/projeto-chatbot/internal/model"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/database"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/embedding/jina"

	"github.com/joho/godotenv"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

type productSeed struct {
	Name        string
	Category    string
	Description string
	Unit        string
	UnitPrice   float64
	Keywords    []string
}

var products = []productSeed{
	{"Cement CP II 50kg", "cement", "General-purpose cement for slabs, plaster and floors. Works indoors and outdoors.", "bag 50kg", 8.90, []string{"cement", "cp ii", "50kg", "slab", "plaster", "floor"}},
	{"Cement CP III 50kg", "cement", "Blast-furnace cement, higher chemical resistance, for foundations and exposed structures.", "bag 50kg", 9.40, []string{"cement", "cp iii", "50kg", "foundation", "exposed"}},
	{"Cement CP IV 25kg", "cement", "Pozzolanic cement for aggressive environments and heavy load structures.", "bag 25kg", 5.80, []string{"cement", "cp iv", "25kg", "heavy load"}},
	{"Fine Sand m3", "sand", "Washed fine sand for plaster and finishing.", "m3", 42.00, []string{"sand", "fine", "plaster", "finishing"}},
	{"Medium Sand m3", "sand", "Medium sand for general masonry and slab concrete.", "m3", 39.00, []string{"sand", "medium", "masonry", "slab"}},
	{"Gravel 1 m3", "gravel", "Gravel number 1 for structural concrete.", "m3", 55.00, []string{"gravel", "crushed stone", "concrete"}},
	{"Acrylic Paint Premium Interior 18l", "paint", "Washable acrylic paint for interior walls, covered areas.", "can 18l", 89.90, []string{"paint", "acrylic", "interior", "18l"}},
	{"Acrylic Paint Exterior 18l", "paint", "Weather-resistant acrylic paint for exterior and exposed walls.", "can 18l", 104.90, []string{"paint", "acrylic", "exterior", "exposed", "18l"}},
	{"Mortar AC-I 20kg", "mortar", "Adhesive mortar for ceramic tile on interior floors and walls.", "bag 20kg", 6.50, []string{"mortar", "ac-i", "tile", "interior"}},
	{"Mortar AC-III 20kg", "mortar", "High-adherence mortar for porcelain tile and exterior facades.", "bag 20kg", 12.30, []string{"mortar", "ac-iii", "porcelain", "exterior"}},
	{"Tape Measure 5m", "tools", "5 meter tape measure with lock.", "unit", 7.90, []string{"tape measure", "5m", "tool"}},
}

type knowledgeSeed struct {
	Topic    string
	Question string
	Answer   string
}

var chunks = []knowledgeSeed{
	{"cement", "What is the difference between CP II and CP III cement?", "CP II is a general-purpose cement, good for slabs, plaster and floors. CP III has blast-furnace slag, cures slower but resists chemicals and humidity better, which makes it the usual pick for foundations and exposed structures."},
	{"cement", "Does CP II cement work for a slab?", "Yes. CP II is the standard choice for residential slabs. For heavy load or exposed structures consider CP III."},
	{"paint", "Can I use interior paint outside?", "Not recommended. Interior acrylic paint has no UV or rain protection, so it fades and peels on exposed walls. Use an exterior acrylic for any wall that takes weather."},
	{"sand", "What is fine sand used for?", "Fine sand is used for plaster and finishing coats, where a smooth surface matters. For masonry and concrete, medium sand is the usual pick."},
	{"mortar", "Which mortar do I need for porcelain tile?", "Porcelain tile needs AC-III mortar. Its adherence is much higher, which the low porosity of porcelain requires. AC-I only serves common ceramic in dry interior areas."},
	{"delivery", "Do you deliver?", "Yes, we deliver to the riverside, lakeview, hillcrest, brookfield and downtown neighborhoods. You can also pick up at the store."},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var embedder *jina.Provider
	if key := os.Getenv("EMBEDDING_API_KEY"); key != "" {
		embedder = jina.NewProvider(key, os.Getenv("EMBEDDING_BASE_URL"), os.Getenv("EMBEDDING_MODEL"))
		log.Println("Embedder configured, vectors will be populated")
	} else {
		log.Println("EMBEDDING_API_KEY not set, seeding without vectors (keyword search only)")
	}

	ctx := context.Background()

	log.Printf("Seeding %d products...", len(products))
	for _, p := range products {
		row := model.Product{
			Name:        p.Name,
			Category:    p.Category,
			Description: p.Description,
			Unit:        p.Unit,
			UnitPrice:   p.UnitPrice,
			Keywords:    datatypes.NewJSONSlice(p.Keywords),
			Attributes:  datatypes.JSON([]byte(`{}`)),
		}
		if embedder != nil {
			if vec, err := embedder.Embed(ctx, p.Name+". "+p.Description); err == nil {
				row.Embedding = pgvector.NewVector(vec)
			} else {
				log.Printf("Warn: embedding failed for %q: %v", p.Name, err)
			}
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			log.Printf("Warn: failed to seed product %q: %v", p.Name, err)
		}
	}

	log.Printf("Seeding %d knowledge chunks...", len(chunks))
	for _, k := range chunks {
		row := model.KnowledgeChunk{
			Topic:    k.Topic,
			Question: k.Question,
			Answer:   k.Answer,
		}
		if embedder != nil {
			if vec, err := embedder.Embed(ctx, k.Question+" "+k.Answer); err == nil {
				row.Embedding = pgvector.NewVector(vec)
			} else {
				log.Printf("Warn: embedding failed for %q: %v", k.Question, err)
			}
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			log.Printf("Warn: failed to seed knowledge chunk %q: %v", k.Question, err)
		}
	}

	log.Println("✅ Seed complete")
}
