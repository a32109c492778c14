package service

import "context"

type testTxRepos struct {
	media        MediaRepositoryInterface
	analysisJobs AnalysisJobRepositoryInterface
}

func (t *testTxRepos) Media() MediaRepositoryInterface {
	return t.media
}

func (t *testTxRepos) AnalysisJobs() AnalysisJobRepositoryInterface {
	return t.analysisJobs
}

type testTxRunner struct {
	repos  TxRepositories
	called bool
}

func (t *testTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	t.called = true
	return fn(t.repos)
}
