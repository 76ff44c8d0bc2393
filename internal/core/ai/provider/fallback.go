package provider

import (
	"context"
	"fmt"
	"time"

	"recipe-search/internal/core/query"
	"recipe-search/internal/pkg/common"
)

// FallbackInterpreter 依優先序嘗試多個供應商的解讀器
// 任一供應商在單次逾時內成功即回傳；全部失敗時回傳最後一個錯誤，
// 由呼叫端降級回純規則解析
type FallbackInterpreter struct {
	providers      []QueryInterpreter
	attemptTimeout time.Duration
}

// NewFallbackInterpreter 創建備援鏈解讀器
func NewFallbackInterpreter(attemptTimeout time.Duration, providers ...QueryInterpreter) *FallbackInterpreter {
	return &FallbackInterpreter{
		providers:      providers,
		attemptTimeout: attemptTimeout,
	}
}

// Name 回傳鏈上首選供應商名稱
func (f *FallbackInterpreter) Name() string {
	if len(f.providers) == 0 {
		return "none"
	}
	return f.providers[0].Name()
}

// Interpret 依序嘗試各供應商，每次嘗試都有獨立逾時
func (f *FallbackInterpreter) Interpret(ctx context.Context, text string, langHint string) (*query.Interpretation, error) {
	if len(f.providers) == 0 {
		return nil, fmt.Errorf("no interpreter providers configured")
	}

	var lastErr error
	for _, p := range f.providers {
		// 外層 context 已取消就不再往下試
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, f.attemptTimeout)
		start := time.Now()
		interp, err := p.Interpret(attemptCtx, text, langHint)
		cancel()

		common.LogInterpreterCall(p.Name(), time.Since(start), err)

		if err == nil {
			return interp, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("all interpreter providers failed: %w", lastErr)
}
