package admin

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DownloadPage saves the PDF of every resume on the current page into dir and
// returns the written paths in list order. The first failure cancels the rest.
func (c *Controller) DownloadPage(ctx context.Context, dir string) ([]string, error) {
	token := c.session.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	items := c.Snapshot().Resumes
	paths := make([]string, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.downloadWorkers)
	for i, item := range items {
		g.Go(func() error {
			artifact, err := c.client.DownloadResumeAsAdmin(gctx, token, item.ID, item.FullName)
			if err != nil {
				return err
			}
			path, err := artifact.Save(dir)
			if err != nil {
				return err
			}
			paths[i] = path
			c.logger.WithField("path", path).Debug("resume saved")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, c.fail(err)
	}
	return paths, nil
}
