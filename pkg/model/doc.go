// Package model describes the base objects manipulated by pax-deploy.
//
// The object model is composed of:
//
//  Packages:
//    An installable analysis package, identified by name. Each package has a
//    working copy (a git clone) under the deployment root.
//
//  Version tags:
//    Released versions of a package, named by git tags. The latest tag is
//    the maximum under version-aware ordering, not string ordering.
//
//  Environments:
//    Isolated runtime environments owned by the environment manager. A head
//    environment tracks the development branch of a package; a tagged
//    environment is pinned to a released version.
//
// All objects are external to the tool: the model only captures naming rules
// and the yaml deployment descriptor persisted inside provisioned
// environments.
package model
