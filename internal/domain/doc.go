// Package domain contains the core entities of the application:
// users, corpus items (vocabulary phrase pairs), and the generated
// practice scenarios that drill them. Entities validate themselves;
// all scheduling logic lives in the srs subpackage.
package domain
