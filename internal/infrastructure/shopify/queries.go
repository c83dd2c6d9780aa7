package shopify

// productsQuery pages through every product with the fields the admin list
// and the quick-edit form read.
const productsQuery = `
query Products($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges {
      cursor
      node {
        id
        title
        handle
        updatedAt
        createdAt
        isGiftCard
        productType
        descriptionHtml
        status
        tags
        vendor
        totalInventory
        standardizedProductType {
          productTaxonomyNode {
            name
            fullName
          }
        }
        featuredImage {
          id
          originalSrc
        }
        images(first: 10) {
          edges {
            node {
              id
              originalSrc
              altText
              height
            }
          }
        }
        variants(first: 1) {
          edges {
            node {
              id
              sku
              price
              compareAtPrice
              inventoryQuantity
              inventoryItem {
                id
                sku
              }
              metafields(namespace: "shipping", first: 3) {
                edges {
                  node {
                    key
                    value
                  }
                }
              }
            }
          }
        }
        collections(first: 10) {
          edges {
            node {
              id
              title
            }
          }
        }
        metafields(first: 10) {
          edges {
            node {
              id
              namespace
              key
              value
            }
          }
        }
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

const collectionsQuery = `
query Collections($first: Int!, $after: String) {
  collections(first: $first, after: $after) {
    edges {
      node {
        id
        title
        handle
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

const locationsQuery = `
query Locations($first: Int!, $after: String) {
  locations(first: $first, after: $after) {
    edges {
      cursor
      node {
        id
        name
        address {
          address1
          city
          country
        }
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

const inventoryItemsQuery = `
query InventoryItems($first: Int!, $after: String) {
  inventoryItems(first: $first, after: $after) {
    edges {
      node {
        id
        tracked
        sku
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`
