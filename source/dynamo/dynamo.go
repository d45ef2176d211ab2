package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/dictcache/column"
	"github.com/hupe1980/dictcache/source"
)

// batchGetLimit is the DynamoDB BatchGetItem request ceiling.
const batchGetLimit = 100

// Client is the subset of the DynamoDB API the source uses. *dynamodb.Client
// satisfies it; tests substitute fakes.
type Client interface {
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
}

// Attribute maps a declared dictionary attribute onto a DynamoDB item
// attribute of the same name.
type Attribute struct {
	Name string
	Kind column.Kind
}

// Config describes the backing table.
type Config struct {
	// TableName is the DynamoDB table.
	TableName string
	// KeyAttribute is the numeric partition key holding the uint64
	// dictionary key.
	KeyAttribute string
	// Attributes lists the dictionary attributes in declaration order.
	Attributes []Attribute
	// Concurrency bounds parallel BatchGetItem pages; defaults to 4.
	Concurrency int
}

// Source loads dictionary records from a DynamoDB table via BatchGetItem.
// Requested keys are split into pages of at most 100 and fetched
// concurrently; unprocessed keys are retried within each page.
type Source struct {
	client Client
	cfg    Config
}

var _ source.Source = (*Source)(nil)

// New creates a DynamoDB-backed source.
func New(client Client, cfg Config) (*Source, error) {
	if client == nil {
		return nil, errors.New("dynamo: client is required")
	}
	if cfg.TableName == "" {
		return nil, errors.New("dynamo: table name is required")
	}
	if cfg.KeyAttribute == "" {
		return nil, errors.New("dynamo: key attribute is required")
	}
	if len(cfg.Attributes) == 0 {
		return nil, errors.New("dynamo: no attributes configured")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Source{client: client, cfg: cfg}, nil
}

// SupportsSelectiveLoad implements source.Source.
func (s *Source) SupportsSelectiveLoad() bool { return true }

// Clone implements source.Source. The underlying client is safe for
// concurrent use, so the clone shares it.
func (s *Source) Clone() source.Source {
	clone := *s
	return &clone
}

// LoadIDs implements source.Source.
func (s *Source) LoadIDs(ctx context.Context, ids []uint64) (source.Stream, error) {
	var (
		mu     sync.Mutex
		blocks []*column.Block
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for start := 0; start < len(ids); start += batchGetLimit {
		page := ids[start:min(start+batchGetLimit, len(ids))]
		g.Go(func() error {
			blk, err := s.fetchPage(ctx, page)
			if err != nil {
				return err
			}
			if blk.Rows() == 0 {
				return nil
			}
			mu.Lock()
			blocks = append(blocks, blk)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return source.NewBlockStream(blocks...), nil
}

// fetchPage fetches up to batchGetLimit keys, retrying unprocessed keys
// until the page drains.
func (s *Source) fetchPage(ctx context.Context, ids []uint64) (*column.Block, error) {
	keys := make([]map[string]types.AttributeValue, len(ids))
	for i, id := range ids {
		keys[i] = map[string]types.AttributeValue{
			s.cfg.KeyAttribute: &types.AttributeValueMemberN{Value: strconv.FormatUint(id, 10)},
		}
	}

	resultKeys := column.NewUInt64s(nil)
	cols := make([]*column.Values, len(s.cfg.Attributes))
	for i, a := range s.cfg.Attributes {
		cols[i] = column.NewValues(a.Kind)
	}

	for len(keys) > 0 {
		out, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				s.cfg.TableName: {Keys: keys},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("dynamo: batch get: %w", err)
		}

		for _, item := range out.Responses[s.cfg.TableName] {
			id, err := s.itemKey(item)
			if err != nil {
				return nil, err
			}
			resultKeys.Data = append(resultKeys.Data, id)
			for i, a := range s.cfg.Attributes {
				v, err := itemValue(item, a)
				if err != nil {
					return nil, err
				}
				cols[i].Append(v)
			}
		}

		keys = out.UnprocessedKeys[s.cfg.TableName].Keys
	}

	blockCols := make([]column.Column, 0, len(cols)+1)
	blockCols = append(blockCols, resultKeys)
	for _, c := range cols {
		blockCols = append(blockCols, c)
	}
	return column.NewBlock(blockCols...), nil
}

func (s *Source) itemKey(item map[string]types.AttributeValue) (uint64, error) {
	av, ok := item[s.cfg.KeyAttribute].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("dynamo: item key %s is not numeric", s.cfg.KeyAttribute)
	}
	id, err := strconv.ParseUint(av.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("dynamo: parse key %s: %w", s.cfg.KeyAttribute, err)
	}
	return id, nil
}

// itemValue converts a DynamoDB attribute value into the carrier form of the
// declared kind. Missing item attributes yield the kind's zero carrier.
func itemValue(item map[string]types.AttributeValue, a Attribute) (column.Value, error) {
	av, ok := item[a.Name]
	if !ok {
		switch column.CarrierOf(a.Kind) {
		case column.CarrierUInt:
			return column.UInt(0), nil
		case column.CarrierInt:
			return column.Int(0), nil
		case column.CarrierFloat:
			return column.Float(0), nil
		default:
			return column.String(""), nil
		}
	}

	switch column.CarrierOf(a.Kind) {
	case column.CarrierUInt:
		n, err := numeric(av, a.Name)
		if err != nil {
			return column.Value{}, err
		}
		u, err := strconv.ParseUint(n, 10, 64)
		if err != nil {
			return column.Value{}, fmt.Errorf("dynamo: attribute %s: %w", a.Name, err)
		}
		return column.UInt(u), nil
	case column.CarrierInt:
		n, err := numeric(av, a.Name)
		if err != nil {
			return column.Value{}, err
		}
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return column.Value{}, fmt.Errorf("dynamo: attribute %s: %w", a.Name, err)
		}
		return column.Int(i), nil
	case column.CarrierFloat:
		n, err := numeric(av, a.Name)
		if err != nil {
			return column.Value{}, err
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return column.Value{}, fmt.Errorf("dynamo: attribute %s: %w", a.Name, err)
		}
		return column.Float(f), nil
	case column.CarrierString:
		s, ok := av.(*types.AttributeValueMemberS)
		if !ok {
			return column.Value{}, fmt.Errorf("dynamo: attribute %s is not a string", a.Name)
		}
		return column.String(s.Value), nil
	default:
		return column.Value{}, fmt.Errorf("dynamo: attribute %s has invalid kind", a.Name)
	}
}

func numeric(av types.AttributeValue, name string) (string, error) {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return "", fmt.Errorf("dynamo: attribute %s is not numeric", name)
	}
	return n.Value, nil
}
