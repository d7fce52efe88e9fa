package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"scenario-sim-api/pkg/models"
)

const (
	// 原価列がない場合は価格の60%（粗利40%想定）
	defaultCostRatio = 0.6
	// 需要列がない場合の基準需要
	defaultBaseDemand = 1000.0
)

var (
	idHeaders          = []string{"id", "product_id", "product_code", "製品ID", "製品id", "製品コード", "商品ID", "商品id", "商品コード"}
	nameHeaders        = []string{"name", "product_name", "product", "製品名", "商品名", "製品", "商品"}
	priceHeaders       = []string{"price", "current_price", "currentPrice", "unit_price", "価格", "販売価格", "単価"}
	recommendedHeaders = []string{"recommended_price", "recommendedPrice", "推奨価格"}
	costHeaders        = []string{"cost", "unit_cost", "原価", "仕入価格"}
	demandHeaders      = []string{"demand", "current_demand", "currentDemand", "quantity", "需要", "販売数", "数量"}
	categoryHeaders    = []string{"category", "カテゴリ", "カテゴリー"}
)

// ImportResult はカタログ取り込みの結果です。
type ImportResult struct {
	Imported []models.Product `json:"imported"`
	Skipped  int              `json:"skipped"`
}

// CatalogService は商品カタログをメモリ上で管理します。
type CatalogService struct {
	mu       sync.RWMutex
	order    []string
	products map[string]models.Product
	logger   zerolog.Logger
}

// NewCatalogService は組み込み商品を登録済みのCatalogServiceを生成します。
func NewCatalogService(logger zerolog.Logger) *CatalogService {
	s := &CatalogService{
		products: make(map[string]models.Product),
		logger:   logger.With().Str("component", "catalog").Logger(),
	}
	for _, p := range SeedProducts() {
		s.upsert(p)
	}
	return s
}

// SeedProducts はデモ用の組み込み商品です。
func SeedProducts() []models.Product {
	return []models.Product{
		NewProduct("caramel-latte", "Caramel Latte", 5.50, 5.75),
		NewProduct("matcha-latte", "Matcha Latte", 6.00, 6.25),
		NewProduct("cold-brew", "Cold Brew Coffee", 4.75, 4.95),
		NewProduct("croissant", "Butter Croissant", 3.25, 3.50),
		NewProduct("blueberry-muffin", "Blueberry Muffin", 3.00, 3.15),
	}
}

// NewProduct は価格だけが分かっている商品を計算可能な Product に変換します。
// 原価は価格の60%、基準需要は1000個、カテゴリはIDから推定します。
func NewProduct(id, name string, price, recommendedPrice float64) models.Product {
	if recommendedPrice <= 0 {
		recommendedPrice = price
	}
	return models.Product{
		ID:               id,
		Name:             name,
		CurrentPrice:     price,
		RecommendedPrice: recommendedPrice,
		Cost:             price * defaultCostRatio,
		CurrentDemand:    defaultBaseDemand,
		Category:         categoryFor(id),
	}
}

func categoryFor(id string) string {
	if strings.Contains(strings.ToLower(id), "latte") {
		return "Beverages"
	}
	return "Other"
}

// ValidateProduct は計算に使う商品の前提条件を検証します。
func ValidateProduct(p models.Product) error {
	switch {
	case p.CurrentPrice <= 0:
		return fmt.Errorf("%w: currentPrice must be positive", ErrInvalidProduct)
	case p.Cost < 0:
		return fmt.Errorf("%w: cost must not be negative", ErrInvalidProduct)
	case p.CurrentDemand < 0:
		return fmt.Errorf("%w: currentDemand must not be negative", ErrInvalidProduct)
	}
	return nil
}

func (s *CatalogService) upsert(p models.Product) {
	if _, exists := s.products[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.products[p.ID] = p
}

// List は商品を登録順に返します。
func (s *CatalogService) List() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id])
	}
	return out
}

func (s *CatalogService) Get(id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("product %q: %w", id, ErrProductNotFound)
	}
	return p, nil
}

// Upsert は商品を追加または置き換えます。
func (s *CatalogService) Upsert(p models.Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	if err := ValidateProduct(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsert(p)
	return nil
}

// Import は .csv / .xlsx ファイルから商品を取り込みます。
func (s *CatalogService) Import(r io.Reader, filename string) (ImportResult, error) {
	rows, err := ReadRows(r, filename)
	if err != nil {
		return ImportResult{}, err
	}
	result, err := ParseProductRows(rows)
	if err != nil {
		return ImportResult{}, err
	}

	s.mu.Lock()
	for _, p := range result.Imported {
		s.upsert(p)
	}
	s.mu.Unlock()

	s.logger.Info().
		Str("file", filename).
		Int("imported", len(result.Imported)).
		Int("skipped", result.Skipped).
		Msg("Catalog imported")
	return result, nil
}

// LoadFile は起動時にカタログファイルを読み込みます。
func (s *CatalogService) LoadFile(path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return s.Import(f, filepath.Base(path))
}

// ReadRows は拡張子に応じてCSVまたはExcelの先頭シートを行に展開します。
func ReadRows(r io.Reader, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: read xlsx: %v", ErrInvalidCatalog, err)
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet: %v", ErrInvalidCatalog, err)
		}
		return rows, nil
	case ".csv":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		// Excel出力のBOMを除去
		data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
		cr := csv.NewReader(bytes.NewReader(data))
		cr.FieldsPerRecord = -1
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: parse csv: %v", ErrInvalidCatalog, err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q, use .csv or .xlsx", ErrInvalidCatalog, filepath.Ext(filename))
	}
}

// ParseProductRows はヘッダー行から列を検出して商品に変換します。
// ID列と価格列が必須です。価格が読めない行はスキップします。
func ParseProductRows(rows [][]string) (ImportResult, error) {
	if len(rows) < 2 {
		return ImportResult{}, fmt.Errorf("%w: a header row and at least one data row are required", ErrInvalidCatalog)
	}

	header := rows[0]
	idCol := findColumn(header, idHeaders...)
	nameCol := findColumn(header, nameHeaders...)
	priceCol := findColumn(header, priceHeaders...)
	recommendedCol := findColumn(header, recommendedHeaders...)
	costCol := findColumn(header, costHeaders...)
	demandCol := findColumn(header, demandHeaders...)
	categoryCol := findColumn(header, categoryHeaders...)

	var missing []string
	if idCol == -1 {
		missing = append(missing, "id")
	}
	if priceCol == -1 {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return ImportResult{}, fmt.Errorf("%w: missing columns %s", ErrInvalidCatalog, strings.Join(missing, ", "))
	}

	result := ImportResult{Imported: make([]models.Product, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		id := cell(row, idCol)
		price, ok := parseAmount(cell(row, priceCol))
		if id == "" || !ok {
			result.Skipped++
			continue
		}

		name := cell(row, nameCol)
		if name == "" {
			name = id
		}
		recommended, _ := parseAmount(cell(row, recommendedCol))
		p := NewProduct(id, name, price, recommended)
		if cost, ok := parseAmount(cell(row, costCol)); ok {
			p.Cost = cost
		}
		if demand, ok := parseAmount(cell(row, demandCol)); ok {
			p.CurrentDemand = demand
		}
		if category := cell(row, categoryCol); category != "" {
			p.Category = category
		}

		if ValidateProduct(p) != nil {
			result.Skipped++
			continue
		}
		result.Imported = append(result.Imported, p)
	}

	if len(result.Imported) == 0 {
		return result, fmt.Errorf("%w: no valid product rows", ErrInvalidCatalog)
	}
	return result, nil
}

// findColumn は候補名に最初に一致した列のインデックスを返します。
func findColumn(header []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, item := range header {
			if strings.EqualFold(strings.TrimSpace(item), candidate) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseAmount は通貨記号と桁区切りを除いて数値に変換します。
func parseAmount(s string) (float64, bool) {
	s = strings.NewReplacer(",", "", "¥", "", "$", "", "円", "", " ", "").Replace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
