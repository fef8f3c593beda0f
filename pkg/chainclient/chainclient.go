package chainclient

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"wallet_dashboard_back/models"
)

// Backend is the subset of ethclient.Client used here.
type Backend interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

type DialFunc func(ctx context.Context, rawurl string) (Backend, error)

func dialEth(ctx context.Context, rawurl string) (Backend, error) {
	c, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Pool holds one RPC client per configured network of the active mode.
// Clients are dialed lazily on first use.
type Pool struct {
	mu       sync.Mutex
	networks map[int64]models.Network
	clients  map[int64]Backend
	dial     DialFunc
}

func NewPool(networks []models.Network, mode string) *Pool {
	return newPool(networks, mode, dialEth)
}

func newPool(networks []models.Network, mode string, dial DialFunc) *Pool {
	p := &Pool{
		networks: make(map[int64]models.Network),
		clients:  make(map[int64]Backend),
		dial:     dial,
	}
	for _, n := range networks {
		if mode != "" && n.Mode != "" && n.Mode != mode {
			continue
		}
		if n.Decimals == 0 {
			n.Decimals = 18
		}
		p.networks[n.ChainID] = n
	}
	return p
}

func (p *Pool) Network(chainID int64) (models.Network, bool) {
	n, ok := p.networks[chainID]
	return n, ok
}

func (p *Pool) Networks() []models.Network {
	out := make([]models.Network, 0, len(p.networks))
	for _, n := range p.networks {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}

func (p *Pool) client(ctx context.Context, chainID int64) (Backend, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[chainID]; ok {
		return c, nil
	}
	n, ok := p.networks[chainID]
	if !ok {
		return nil, fmt.Errorf("network %d is not configured", chainID)
	}
	c, err := p.dial(ctx, n.RPCURL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", n.Name)
	}
	p.clients[chainID] = c
	logrus.WithFields(logrus.Fields{"chain_id": chainID, "network": n.Name}).Info("rpc client connected")
	return c, nil
}

func (p *Pool) BalanceAt(ctx context.Context, chainID int64, address string) (*big.Int, error) {
	c, err := p.client(ctx, chainID)
	if err != nil {
		return nil, err
	}
	return c.BalanceAt(ctx, common.HexToAddress(address), nil)
}

// Receipt passes ethereum.NotFound through for unmined transactions.
func (p *Pool) Receipt(ctx context.Context, chainID int64, txHash string) (*types.Receipt, error) {
	c, err := p.client(ctx, chainID)
	if err != nil {
		return nil, err
	}
	return c.TransactionReceipt(ctx, common.HexToHash(txHash))
}

// Verify dials every network and checks the reported chain id.
func (p *Pool) Verify(ctx context.Context) error {
	for _, n := range p.Networks() {
		c, err := p.client(ctx, n.ChainID)
		if err != nil {
			return err
		}
		id, err := c.ChainID(ctx)
		if err != nil {
			return errors.Wrapf(err, "chain id of %s", n.Name)
		}
		if id.Int64() != n.ChainID {
			return fmt.Errorf("%s: rpc reports chain %d, configured %d", n.Name, id.Int64(), n.ChainID)
		}
	}
	return nil
}

func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, c := range p.clients {
		c.Close()
		delete(p.clients, id)
	}
}
