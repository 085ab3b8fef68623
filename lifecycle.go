package appctx

import "github.com/wssccc/appctx/internal/container"

// PostConstructor is the opt-in hook interface: beans implementing it
// get PostConstruct invoked after the whole registry has been built,
// without declaring the hook name at registration.
type PostConstructor = container.PostConstructor

// PreDestroyer is the opt-in teardown counterpart, invoked by Close in
// reverse registration order.
type PreDestroyer = container.PreDestroyer
